// internal/transport/bridge.go
package transport

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavesink/internal/playback"
	"github.com/llehouerou/wavesink/internal/player"
)

// Engine is the playback state machine as seen by the bridge.
type Engine interface {
	State() playback.State
	Busy() bool
	Execute(cmd playback.Command, arg int) error
	TrackFinished() error
	ConnectionEstablished() error
	ConnectionLost() error
}

// DefaultEmptyRetry is how long the bridge waits before reporting another
// track end while the catalog is empty.
const DefaultEmptyRetry = time.Second

var remoteCommands = map[RemoteKey]playback.Command{
	KeyPlay:       playback.CmdPlay,
	KeyPause:      playback.CmdPause,
	KeyStop:       playback.CmdStop,
	KeyForward:    playback.CmdNextTrack,
	KeyBackward:   playback.CmdPrevTrack,
	KeyVolumeUp:   playback.CmdVolumeUp,
	KeyVolumeDown: playback.CmdVolumeDown,
}

// Bridge translates between a Transport and the playback engine.
//
// Pull runs on the sink's real-time goroutine and only touches atomics and
// the source's non-blocking Read. Track-finished events are handed to the
// goroutine running Run so that opening the next track never stalls the
// sink.
type Bridge struct {
	engine    Engine
	source    player.Interface
	transport Transport
	target    string
	log       zerolog.Logger
	retry     time.Duration

	connected atomic.Bool
	finishing atomic.Bool
	finished  chan struct{}

	onVolume func(key RemoteKey)
}

// Options configures a Bridge.
type Options struct {
	// Target is the device the bridge connects to.
	Target string
	Logger zerolog.Logger
	// EmptyRetry defaults to DefaultEmptyRetry.
	EmptyRetry time.Duration
}

// NewBridge wires engine and source to t. Callbacks are registered by Start.
func NewBridge(engine Engine, source player.Interface, t Transport, opts Options) *Bridge {
	if opts.EmptyRetry <= 0 {
		opts.EmptyRetry = DefaultEmptyRetry
	}
	return &Bridge{
		engine:    engine,
		source:    source,
		transport: t,
		target:    opts.Target,
		retry:     opts.EmptyRetry,
		log:       opts.Logger.With().Str("component", "bridge").Logger(),
		finished:  make(chan struct{}, 1),
	}
}

// SetVolumeHandler installs a handler for remote volume keys. It must be
// called before Start.
func (b *Bridge) SetVolumeHandler(fn func(key RemoteKey)) {
	b.onVolume = fn
}

// Start registers the bridge callbacks and starts the transport.
func (b *Bridge) Start() error {
	b.transport.Register(Callbacks{
		Pull:              b.Pull,
		ConnectionChanged: b.handleConnection,
		Remote:            b.handleRemote,
	})
	if err := b.transport.Start(); err != nil {
		return err
	}
	b.log.Info().Msg("transport started")
	return nil
}

// Connect starts a connection towards the configured target.
func (b *Bridge) Connect() error {
	b.log.Info().Str("target", b.target).Msg("connecting")
	return b.transport.Connect(b.target)
}

// Disconnect drops the link and stops playback.
func (b *Bridge) Disconnect() error {
	err := b.transport.Disconnect()
	// The transport may already have reported the loss through its callback
	if b.connected.CompareAndSwap(true, false) {
		b.connectionLost()
	}
	return err
}

// SetVolume forwards a 0..127 level to the sink.
func (b *Bridge) SetVolume(level int) error {
	return b.transport.SetVolume(level)
}

// Connected reports whether the sink link is established.
func (b *Bridge) Connected() bool {
	return b.connected.Load()
}

// Close shuts the transport down.
func (b *Bridge) Close() error {
	return b.transport.Close()
}

// Run delivers track-finished events to the engine until ctx is done.
//
// The sink keeps pulling a drained source, so with an empty catalog every
// pull would end the track again. The next event is then held back for the
// retry delay, and the sink gets silence meanwhile.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.finished:
		}

		err := b.engine.TrackFinished()
		switch {
		case errors.Is(err, playback.ErrEmptyCatalog):
			b.log.Debug().Dur("retry", b.retry).Msg("track ended with an empty catalog")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(b.retry):
			}
		case err != nil:
			b.log.Warn().Err(err).Msg("advance after track end")
		}
		b.finishing.Store(false)
	}
}

// Pull fills p for the sink. It never blocks and always returns len(p)
// unless p is empty.
func (b *Bridge) Pull(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	if b.engine.Busy() || b.engine.State().Silent() || b.finishing.Load() {
		clear(p)
		return len(p)
	}

	n := b.source.Read(p)
	if n == 0 {
		b.signalFinished()
		clear(p)
		return len(p)
	}
	return n
}

func (b *Bridge) signalFinished() {
	if !b.finishing.CompareAndSwap(false, true) {
		return
	}
	select {
	case b.finished <- struct{}{}:
	default:
	}
}

func (b *Bridge) handleConnection(state ConnectionState) {
	switch state {
	case Connected:
		b.connected.Store(true)
		if err := b.engine.ConnectionEstablished(); err != nil {
			b.log.Warn().Err(err).Msg("start playback on connect")
		}
	case Disconnected:
		if b.connected.CompareAndSwap(true, false) {
			b.connectionLost()
		}
	case Connecting, Disconnecting:
		b.log.Info().Stringer("state", state).Msg("connection state")
	}
}

func (b *Bridge) connectionLost() {
	if err := b.engine.ConnectionLost(); err != nil {
		b.log.Warn().Err(err).Msg("stop playback on disconnect")
	}
}

func (b *Bridge) handleRemote(key RemoteKey, released bool) {
	if !released {
		return
	}
	if b.engine.Busy() {
		b.log.Debug().Stringer("key", key).Msg("remote key dropped, player busy")
		return
	}

	cmd, ok := remoteCommands[key]
	if !ok {
		b.log.Info().Int("key", int(key)).Msg("unknown remote key")
		return
	}
	b.log.Info().Stringer("key", key).Msg("remote key")

	if err := b.engine.Execute(cmd, 0); err != nil && !errors.Is(err, playback.ErrRejected) {
		b.log.Warn().Err(err).Stringer("command", cmd).Msg("remote command")
	}
	if key.IsVolume() && b.onVolume != nil {
		b.onVolume(key)
	}
}

// Remote injects a released media key, as if it came from the sink.
// Used by desktop media key integrations.
func (b *Bridge) Remote(key RemoteKey) {
	b.handleRemote(key, true)
}
