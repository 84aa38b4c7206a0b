package player

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage builds a page carrying the given segments. Granule, serial and
// CRC are left zero; the reader does not check them.
func oggPage(segments ...[]byte) []byte {
	hdr := make([]byte, oggHeaderSize)
	copy(hdr, "OggS")
	hdr[26] = byte(len(segments))

	var lacing, body []byte
	for _, s := range segments {
		lacing = append(lacing, byte(len(s)))
		body = append(body, s...)
	}
	out := append(hdr, lacing...)
	return append(out, body...)
}

func packetsOf(data []byte) *oggPackets {
	return &oggPackets{br: bufio.NewReader(bytes.NewReader(data))}
}

func readAll(t *testing.T, p *oggPackets) [][]byte {
	t.Helper()
	var out [][]byte
	for {
		pkt, err := p.next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, pkt)
	}
}

func TestOggPackets_SeveralPerPage(t *testing.T) {
	data := oggPage([]byte("one"), []byte("two"), []byte("three"))

	got := readAll(t, packetsOf(data))

	assert.Equal(t, [][]byte{[]byte("one"), []byte("two"), []byte("three")}, got)
}

func TestOggPackets_SpanningPages(t *testing.T) {
	full := bytes.Repeat([]byte{0xAB}, 255)
	tail := []byte{1, 2, 3}

	var data []byte
	data = append(data, oggPage(full)...)
	data = append(data, oggPage(full, tail, []byte("next"))...)

	got := readAll(t, packetsOf(data))

	require.Len(t, got, 2)
	assert.Len(t, got[0], 513)
	assert.Equal(t, tail, got[0][510:])
	assert.Equal(t, []byte("next"), got[1])
}

func TestOggPackets_Errors(t *testing.T) {
	badCapture := oggPage([]byte("x"))
	copy(badCapture, "Ogg!")
	badVersion := oggPage([]byte("x"))
	badVersion[4] = 1

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"capture", badCapture, errOggCapture},
		{"version", badVersion, errOggVersion},
		{"empty", nil, io.EOF},
		{"short header", []byte("OggS"), io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := packetsOf(tt.data).next()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeOgg_UnknownCodec(t *testing.T) {
	data := oggPage([]byte("FLAC stream"))

	_, _, err := decodeOgg(io.NopCloser(bytes.NewReader(data)))

	assert.ErrorIs(t, err, errOggCodec)
}

func TestDecodeOgg_BadOpusHead(t *testing.T) {
	data := oggPage([]byte("OpusHead"))

	_, _, err := decodeOgg(io.NopCloser(bytes.NewReader(data)))

	assert.ErrorIs(t, err, errOpusHead)
}

type fakeOggCodec struct {
	nch     int
	packets [][]float32
	bad     map[int]bool
	calls   int
}

func (c *fakeOggCodec) rate() int     { return 44100 }
func (c *fakeOggCodec) channels() int { return c.nch }

func (c *fakeOggCodec) decode([]byte) ([]float32, error) {
	i := c.calls
	c.calls++
	if c.bad[i] {
		return nil, errors.New("corrupt")
	}
	return c.packets[i], nil
}

func TestOggStream_Stream(t *testing.T) {
	tests := []struct {
		name  string
		codec *fakeOggCodec
		want  [][2]float64
	}{
		{
			name:  "stereo",
			codec: &fakeOggCodec{nch: 2, packets: [][]float32{{0.5, -0.5}, {0.25, -0.25}}},
			want:  [][2]float64{{0.5, -0.5}, {0.25, -0.25}},
		},
		{
			name:  "mono duplicated",
			codec: &fakeOggCodec{nch: 1, packets: [][]float32{{0.5, 0.25}, {-1}}},
			want:  [][2]float64{{0.5, 0.5}, {0.25, 0.25}, {-1, -1}},
		},
		{
			name: "corrupt packet skipped",
			codec: &fakeOggCodec{
				nch:     2,
				packets: [][]float32{{0.5, 0.5}, nil},
				bad:     map[int]bool{1: true},
			},
			want: [][2]float64{{0.5, 0.5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := make([][]byte, len(tt.codec.packets))
			for i := range segs {
				segs[i] = []byte{byte(i)}
			}
			s := &oggStream{
				packets: packetsOf(oggPage(segs...)),
				codec:   tt.codec,
				closer:  io.NopCloser(nil),
			}

			buf := make([][2]float64, 8)
			n, ok := s.Stream(buf)

			assert.True(t, ok)
			assert.Equal(t, tt.want, buf[:n])
			assert.Equal(t, n, s.Position())

			n, ok = s.Stream(buf)
			assert.Zero(t, n)
			assert.False(t, ok)
			assert.NoError(t, s.Err())
		})
	}
}

func TestOggStream_NoSeek(t *testing.T) {
	s := &oggStream{closer: io.NopCloser(nil)}

	assert.ErrorIs(t, s.Seek(0), errOggSeek)
	assert.Zero(t, s.Len())
	assert.NoError(t, s.Close())
}
