package sink

import (
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavesink/internal/player"
	"github.com/llehouerou/wavesink/internal/transport"
)

// Speaker plays through gopxl/beep's speaker package. The pull callback is
// exposed to the speaker mixer as a beep.Streamer.
type Speaker struct {
	opts Options
	log  zerolog.Logger

	mu      sync.Mutex
	cb      transport.Callbacks
	started bool
	volume  *effects.Volume
	level   int
}

// NewSpeaker creates a Speaker sink. The device is initialised by Start.
func NewSpeaker(opts Options) *Speaker {
	return &Speaker{
		opts:  opts,
		log:   opts.Logger.With().Str("component", "sink").Str("backend", "speaker").Logger(),
		level: -1,
	}
}

func (s *Speaker) Register(cb transport.Callbacks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cb = cb
}

func (s *Speaker) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	sr := beep.SampleRate(s.opts.SampleRate)
	if err := speaker.Init(sr, sr.N(s.opts.Latency)); err != nil {
		return err
	}
	s.started = true
	s.log.Info().Int("sample_rate", s.opts.SampleRate).Dur("latency", s.opts.Latency).Msg("speaker ready")
	return nil
}

// Connect starts the pull streamer on the speaker. The target is ignored.
func (s *Speaker) Connect(string) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.volume != nil {
		s.mu.Unlock()
		return nil
	}
	cb := s.cb
	vol := &effects.Volume{
		Streamer: newPullStreamer(cb.Pull),
		Base:     2,
	}
	if s.level >= 0 {
		vol.Volume = levelToVolume(s.level)
		vol.Silent = s.level == 0
	}
	s.volume = vol
	s.mu.Unlock()

	notify(cb, transport.Connecting)
	speaker.Play(vol)
	notify(cb, transport.Connected)
	return nil
}

func (s *Speaker) Disconnect() error {
	s.mu.Lock()
	vol, cb := s.volume, s.cb
	s.volume = nil
	s.mu.Unlock()
	if vol == nil {
		return nil
	}

	notify(cb, transport.Disconnecting)
	speaker.Clear()
	notify(cb, transport.Disconnected)
	return nil
}

// SetVolume applies a 0..127 level through the beep volume effect.
func (s *Speaker) SetVolume(level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	if s.volume == nil {
		return nil
	}
	speaker.Lock()
	s.volume.Volume = levelToVolume(level)
	s.volume.Silent = level <= 0
	speaker.Unlock()
	return nil
}

func (s *Speaker) Close() error {
	err := s.Disconnect()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		speaker.Close()
		s.started = false
	}
	return err
}

// pullStreamer feeds the speaker mixer from a byte pull callback.
type pullStreamer struct {
	pull func(p []byte) int
	buf  []byte
}

func newPullStreamer(pull func(p []byte) int) *pullStreamer {
	return &pullStreamer{pull: pull}
}

// Stream never ends: gaps between tracks are silence, not end of stream.
func (p *pullStreamer) Stream(samples [][2]float64) (int, bool) {
	need := len(samples) * player.BytesPerFrame
	if cap(p.buf) < need {
		p.buf = make([]byte, need)
	}
	buf := p.buf[:need]

	n := 0
	if p.pull != nil {
		n = p.pull(buf)
	}
	clear(buf[n:])
	for i := range samples {
		samples[i] = player.DecodeFrame(buf[i*player.BytesPerFrame:])
	}
	return len(samples), true
}

func (p *pullStreamer) Err() error { return nil }

// Verify Speaker implements Transport at compile time.
var _ transport.Transport = (*Speaker)(nil)
