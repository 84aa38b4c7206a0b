package player

import (
	"bufio"
	"io"
	"io/fs"
	"sync"

	"github.com/gopxl/beep/v2"
)

const (
	// DefaultSampleRate is the fixed PCM rate delivered to the sink.
	DefaultSampleRate = 44100
	// DefaultBufferSize holds several pull cycles' worth of decoded audio,
	// enough to smooth over storage latency jitter.
	DefaultBufferSize = 8 * 1024

	resampleQuality = 4
)

// Options configures a Source.
type Options struct {
	SampleRate int
	BufferSize int
	// Codecs overrides the decoders keyed by extension. Nil means DefaultCodecs.
	Codecs map[string]DecodeFunc
}

// Source streams one track at a time from a storage filesystem as 16-bit
// little-endian stereo PCM.
//
// Open and Close run on the control path and may block on storage I/O.
// Read runs on the real-time path and never waits for them: when a track
// change holds the lock, Read delivers a frame of silence instead.
type Source struct {
	mu     sync.Mutex
	fsys   fs.FS
	rate   beep.SampleRate
	codecs map[string]DecodeFunc

	file    fs.File
	stream  beep.StreamSeekCloser
	pcm     *pcmEncoder
	buf     *bufio.Reader
	path    string
	open    bool
	drained bool
}

// NewSource creates a closed Source reading tracks from fsys.
func NewSource(fsys fs.FS, opts Options) *Source {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Codecs == nil {
		opts.Codecs = DefaultCodecs()
	}

	pcm := newPCMEncoder(opts.BufferSize / BytesPerFrame)
	return &Source{
		fsys:   fsys,
		rate:   beep.SampleRate(opts.SampleRate),
		codecs: opts.Codecs,
		pcm:    pcm,
		buf:    bufio.NewReaderSize(pcm, opts.BufferSize),
	}
}

// Open closes the current track and starts decoding path.
// On failure the source is left closed and an *OpenError is returned.
func (s *Source) Open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	decode, ok := s.codecs[Ext(path)]
	if !ok {
		return &OpenError{Path: path, Err: ErrUnsupportedFormat}
	}

	f, err := s.fsys.Open(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return &OpenError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return &OpenError{Path: path, Err: ErrNotRegular}
	}

	stream, format, err := decode(f)
	if err != nil {
		f.Close()
		return &OpenError{Path: path, Err: err}
	}

	var pcm beep.Streamer = stream
	if format.SampleRate != s.rate {
		pcm = beep.Resample(resampleQuality, format.SampleRate, s.rate, stream)
	}

	s.pcm.reset(pcm)
	s.buf.Reset(s.pcm)
	s.file = f
	s.stream = stream
	s.path = path
	s.open = true
	s.drained = false
	return nil
}

// Close releases the current track. It is safe to call when already closed.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Source) closeLocked() error {
	var err error
	if s.stream != nil {
		err = s.stream.Close()
		s.stream = nil
	}
	if s.file != nil {
		// Decoders may already have closed the file through the stream
		_ = s.file.Close()
		s.file = nil
	}
	s.pcm.reset(nil)
	s.buf.Reset(s.pcm)
	s.path = ""
	s.open = false
	s.drained = false
	return err
}

// Read fills p with the next PCM frame and returns len(p).
//
// It returns 0 only when no track is open or the previous call delivered
// the last decoded bytes. A short final frame is padded with silence so the
// sink always receives complete frames.
func (s *Source) Read(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	if !s.mu.TryLock() {
		clear(p)
		return len(p)
	}
	defer s.mu.Unlock()

	if !s.open || s.drained {
		return 0
	}

	n, _ := io.ReadFull(s.buf, p)
	if n == 0 {
		s.drained = true
		return 0
	}
	if n < len(p) {
		clear(p[n:])
		s.drained = true
	}
	return len(p)
}

// Path returns the open track's path, or "" when closed.
func (s *Source) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}
