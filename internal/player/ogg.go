package player

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

const (
	oggHeaderSize = 27
	// Opus always decodes at 48 kHz; 120 ms is its largest frame.
	opusRate      = 48000
	opusMaxFrame  = opusRate * 120 / 1000
	vorbisHeaders = 3
)

var (
	errOggCapture     = errors.New("ogg: invalid capture pattern")
	errOggVersion     = errors.New("ogg: unsupported version")
	errOggCodec       = errors.New("ogg: unknown codec")
	errOggSeek        = errors.New("ogg: seeking is not supported")
	errOggChannels    = errors.New("ogg: only mono and stereo are supported")
	errVorbisIdentity = errors.New("vorbis: invalid identification header")
	errOpusHead       = errors.New("opus: invalid OpusHead")
)

// oggPackets splits an Ogg bitstream into packets. Packets may span pages.
type oggPackets struct {
	br      *bufio.Reader
	lacing  []byte
	partial []byte
	queue   [][]byte
}

func (o *oggPackets) next() ([]byte, error) {
	for len(o.queue) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	p := o.queue[0]
	o.queue = o.queue[1:]
	return p, nil
}

func (o *oggPackets) readPage() error {
	var hdr [oggHeaderSize]byte
	if _, err := io.ReadFull(o.br, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return io.EOF
		}
		return err
	}
	if string(hdr[:4]) != "OggS" {
		return errOggCapture
	}
	if hdr[4] != 0 {
		return errOggVersion
	}

	o.lacing = o.lacing[:0]
	for range int(hdr[26]) {
		b, err := o.br.ReadByte()
		if err != nil {
			return err
		}
		o.lacing = append(o.lacing, b)
	}

	// A segment shorter than 255 bytes ends a packet
	for _, size := range o.lacing {
		seg := make([]byte, size)
		if _, err := io.ReadFull(o.br, seg); err != nil {
			return err
		}
		o.partial = append(o.partial, seg...)
		if size < 255 {
			o.queue = append(o.queue, o.partial)
			o.partial = nil
		}
	}
	return nil
}

// oggCodec decodes the audio packets of one logical stream into interleaved
// float samples.
type oggCodec interface {
	rate() int
	channels() int
	decode(packet []byte) ([]float32, error)
}

type vorbisCodec struct {
	dec *vorbis.Decoder
}

func newVorbisCodec(ident []byte, packets *oggPackets) (*vorbisCodec, error) {
	if len(ident) < 16 || binary.LittleEndian.Uint32(ident[7:11]) != 0 {
		return nil, errVorbisIdentity
	}
	dec := &vorbis.Decoder{}
	if err := dec.ReadHeader(ident); err != nil {
		return nil, err
	}
	// Comment and setup headers follow the identification header
	for range vorbisHeaders - 1 {
		p, err := packets.next()
		if err != nil {
			return nil, fmt.Errorf("vorbis headers: %w", err)
		}
		if err := dec.ReadHeader(p); err != nil {
			return nil, err
		}
	}
	return &vorbisCodec{dec: dec}, nil
}

func (c *vorbisCodec) rate() int     { return c.dec.SampleRate() }
func (c *vorbisCodec) channels() int { return c.dec.Channels() }

func (c *vorbisCodec) decode(packet []byte) ([]float32, error) {
	return c.dec.Decode(packet)
}

type opusCodec struct {
	dec     *opus.Decoder
	nch     int
	preSkip int
	pcm     []float32
}

func newOpusCodec(head []byte, packets *oggPackets) (*opusCodec, error) {
	if len(head) < 19 || head[8] != 1 {
		return nil, errOpusHead
	}
	nch := int(head[9])
	dec, err := opus.NewDecoder(opusRate, nch)
	if err != nil {
		return nil, err
	}
	// The comment header carries nothing the player needs
	if _, err := packets.next(); err != nil {
		return nil, fmt.Errorf("opus tags: %w", err)
	}
	return &opusCodec{
		dec:     dec,
		nch:     nch,
		preSkip: int(binary.LittleEndian.Uint16(head[10:12])),
		pcm:     make([]float32, opusMaxFrame*nch),
	}, nil
}

func (c *opusCodec) rate() int     { return opusRate }
func (c *opusCodec) channels() int { return c.nch }

func (c *opusCodec) decode(packet []byte) ([]float32, error) {
	n, err := c.dec.DecodeFloat32(packet, c.pcm)
	if err != nil {
		return nil, err
	}
	out := c.pcm[:n*c.nch]
	// Encoder priming samples are dropped from the start of the stream
	if c.preSkip > 0 {
		skip := min(c.preSkip, n)
		c.preSkip -= skip
		out = out[skip*c.nch:]
	}
	return out, nil
}

// decodeOgg starts a Vorbis or Opus decoder on an Ogg file. The codec is
// detected from the first packet.
func decodeOgg(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	packets := &oggPackets{br: bufio.NewReader(rc)}
	first, err := packets.next()
	if err != nil {
		return nil, beep.Format{}, err
	}

	var codec oggCodec
	switch {
	case len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		codec, err = newVorbisCodec(first, packets)
	case len(first) >= 8 && string(first[:8]) == "OpusHead":
		codec, err = newOpusCodec(first, packets)
	default:
		err = errOggCodec
	}
	if err != nil {
		return nil, beep.Format{}, err
	}
	if ch := codec.channels(); ch != 1 && ch != 2 {
		return nil, beep.Format{}, errOggChannels
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.rate()),
		NumChannels: codec.channels(),
		Precision:   2,
	}
	return &oggStream{packets: packets, codec: codec, closer: rc}, format, nil
}

// oggStream plays an Ogg stream front to back.
type oggStream struct {
	packets *oggPackets
	codec   oggCodec
	closer  io.Closer

	pcm []float32
	pos int
	err error
}

func (s *oggStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	mono := s.codec.channels() == 1

	for n < len(samples) {
		if len(s.pcm) == 0 {
			packet, err := s.packets.next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = err
				}
				return n, n > 0
			}
			pcm, err := s.codec.decode(packet)
			if err != nil {
				// A corrupt packet costs one frame, not the track
				continue
			}
			s.pcm = pcm
		}

		if mono {
			samples[n][0] = float64(s.pcm[0])
			samples[n][1] = float64(s.pcm[0])
			s.pcm = s.pcm[1:]
		} else {
			samples[n][0] = float64(s.pcm[0])
			samples[n][1] = float64(s.pcm[1])
			s.pcm = s.pcm[2:]
		}
		s.pos++
		n++
	}
	return n, true
}

func (s *oggStream) Err() error { return s.err }

// Len is unknown without scanning to the last page.
func (s *oggStream) Len() int { return 0 }

func (s *oggStream) Position() int { return s.pos }

func (s *oggStream) Seek(int) error { return errOggSeek }

func (s *oggStream) Close() error { return s.closer.Close() }
