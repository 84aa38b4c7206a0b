package sink

import (
	"errors"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavesink/internal/transport"
)

// ErrNotStarted is returned by Connect before Start.
var ErrNotStarted = errors.New("sink not started")

// Oto plays through the system audio device with ebitengine/oto. The device
// pulls PCM from the registered callback on its own goroutine.
type Oto struct {
	opts Options
	log  zerolog.Logger

	mu        sync.Mutex
	cb        transport.Callbacks
	ctx       *oto.Context
	newPlayer func(io.Reader) devicePlayer // set by Start
	player    devicePlayer
	gain      float64
}

// devicePlayer is the part of *oto.Player the sink drives.
type devicePlayer interface {
	SetVolume(volume float64)
	Play()
	Pause()
	Close() error
}

// NewOto creates an Oto sink. The audio context is created by Start.
func NewOto(opts Options) *Oto {
	return &Oto{
		opts: opts,
		log:  opts.Logger.With().Str("component", "sink").Str("backend", "oto").Logger(),
		gain: 1,
	}
}

func (o *Oto) Register(cb transport.Callbacks) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cb = cb
}

// Start opens the audio context. Oto allows one context per process.
func (o *Oto) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx != nil {
		return nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   o.opts.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   o.opts.Latency,
	})
	if err != nil {
		return err
	}
	<-ready
	o.ctx = ctx
	o.newPlayer = func(r io.Reader) devicePlayer { return ctx.NewPlayer(r) }
	o.log.Info().Int("sample_rate", o.opts.SampleRate).Dur("latency", o.opts.Latency).Msg("audio context ready")
	return nil
}

// Connect creates the device player and starts pulling. The target is
// ignored: oto always plays on the default output. Concurrent calls share a
// single player.
func (o *Oto) Connect(string) error {
	o.mu.Lock()
	if o.newPlayer == nil {
		o.mu.Unlock()
		return ErrNotStarted
	}
	if o.player != nil {
		o.mu.Unlock()
		return nil
	}
	cb := o.cb
	p := o.newPlayer(pullReader{pull: cb.Pull})
	p.SetVolume(o.gain)
	o.player = p
	o.mu.Unlock()

	notify(cb, transport.Connecting)

	o.mu.Lock()
	if o.player != p {
		// Disconnected before playback started
		o.mu.Unlock()
		return nil
	}
	p.Play()
	o.mu.Unlock()

	notify(cb, transport.Connected)
	return nil
}

// Disconnect stops and releases the device player.
func (o *Oto) Disconnect() error {
	o.mu.Lock()
	p, cb := o.player, o.cb
	o.player = nil
	o.mu.Unlock()
	if p == nil {
		return nil
	}

	notify(cb, transport.Disconnecting)
	p.Pause()
	err := p.Close()
	notify(cb, transport.Disconnected)
	return err
}

// SetVolume maps a 0..127 level to the player's linear gain.
func (o *Oto) SetVolume(level int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gain = levelToGain(level)
	if o.player != nil {
		o.player.SetVolume(o.gain)
	}
	return nil
}

func (o *Oto) Close() error {
	err := o.Disconnect()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx != nil {
		err = errors.Join(err, o.ctx.Suspend())
	}
	return err
}

// Verify Oto implements Transport at compile time.
var _ transport.Transport = (*Oto)(nil)
