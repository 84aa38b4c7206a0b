package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/wavesink/internal/catalog"
	"github.com/llehouerou/wavesink/internal/config"
	"github.com/llehouerou/wavesink/internal/console"
	"github.com/llehouerou/wavesink/internal/errmsg"
	"github.com/llehouerou/wavesink/internal/mpris"
	"github.com/llehouerou/wavesink/internal/notify"
	"github.com/llehouerou/wavesink/internal/playback"
	"github.com/llehouerou/wavesink/internal/player"
	"github.com/llehouerou/wavesink/internal/sink"
	"github.com/llehouerou/wavesink/internal/transport"
	"github.com/llehouerou/wavesink/internal/volume"
)

// session owns every component of a running player.
type session struct {
	cfg *config.Config
	log zerolog.Logger

	fsys    fs.FS
	catalog *catalog.Catalog
	engine  *playback.Engine
	bridge  *transport.Bridge
	volume  *volume.Control
}

// newSession scans the catalog and wires the engine to the configured sink.
// A failed scan leaves the catalog empty; the console can rescan later.
func newSession(c *config.Config, log zerolog.Logger, t transport.Transport) (*session, error) {
	fsys := os.DirFS(c.MusicRoot)
	cat := newCatalog(c, log)
	if err := cat.Scan(); err != nil {
		log.Error().Err(err).Msg(errmsg.Format(errmsg.OpCatalogScan, err))
	}
	if cat.Count() == 0 {
		log.Warn().Str("root", c.MusicRoot).Msg("No tracks found in music folder!")
	}

	src := player.NewSource(fsys, player.Options{
		SampleRate: c.Audio.SampleRate,
		BufferSize: c.Audio.BufferBytes,
	})
	engine := playback.New(src, cat)
	engineLog := log.With().Str("component", "engine").Logger()
	engine.OnLog(func(msg string) {
		engineLog.Info().Msg(msg)
	})

	bridge := transport.NewBridge(engine, src, t, transport.Options{
		Target: c.TargetDevice,
		Logger: log,
	})
	vol := volume.New(volume.Config{
		Initial:      c.Volume.Initial,
		Step:         c.Volume.Step,
		Min:          c.Volume.Min,
		Max:          c.Volume.Max,
		FadeStep:     c.Volume.FadeStep,
		FadeInterval: c.Volume.FadeInterval(),
	}, bridge.SetVolume)
	bridge.SetVolumeHandler(func(key transport.RemoteKey) {
		change := vol.Up
		if key == transport.KeyVolumeDown {
			change = vol.Down
		}
		if _, err := change(); err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpVolumeSet, err))
		}
	})

	if err := bridge.Start(); err != nil {
		_ = engine.Close()
		return nil, fmt.Errorf("failed to %s: %w", errmsg.OpSinkStart, err)
	}
	if err := vol.Apply(); err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpVolumeSet, err))
	}

	return &session{
		cfg:     c,
		log:     log,
		fsys:    fsys,
		catalog: cat,
		engine:  engine,
		bridge:  bridge,
		volume:  vol,
	}, nil
}

// newTransport returns the sink selected by the configuration.
func newTransport(c *config.Config, log zerolog.Logger) (transport.Transport, error) {
	opts := sink.Options{
		SampleRate: c.Audio.SampleRate,
		Latency:    c.Sink.Latency(),
		Logger:     log,
	}
	switch c.Sink.Backend {
	case config.BackendOto:
		return sink.NewOto(opts), nil
	case config.BackendSpeaker:
		return sink.NewSpeaker(opts), nil
	case config.BackendNull:
		return transport.NewNull(c.Audio.SampleRate, c.Audio.FrameBytes), nil
	default:
		return nil, fmt.Errorf("%w: unknown sink backend %q", config.ErrInvalid, c.Sink.Backend)
	}
}

// controller builds the console command surface for the session.
func (s *session) controller() *console.Controller {
	return console.NewController(console.Options{
		Engine:  s.engine,
		Sink:    s.bridge,
		Catalog: s.catalog,
		Volume:  s.volume,
		Logger:  s.log,
	})
}

// albumArt finds a cover image for track i.
func (s *session) albumArt(i int) string {
	return notify.FindAlbumArtPath(s.fsys, s.cfg.MusicRoot, s.catalog.Path(i))
}

// consoleFunc runs a console until the user quits or ctx is done.
type consoleFunc func(ctx context.Context) error

// run starts the background workers, runs the console and tears everything
// down once the console returns.
func (s *session) run(ctx context.Context, runConsole consoleFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.bridge.Run(ctx)
	})

	if s.cfg.MPRISEnabled() {
		adapter, err := mpris.New(mpris.Options{
			Name:    s.cfg.LocalName,
			Player:  s.engine,
			Remote:  s.bridge.Remote,
			Catalog: s.catalog,
			FS:      s.fsys,
			Root:    s.cfg.MusicRoot,
		})
		if err != nil {
			s.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpMPRISStart, err))
		} else {
			defer func() { _ = adapter.Close() }()
		}
	}

	if s.cfg.Notifications {
		n, err := notify.New(s.cfg.LocalName)
		if err != nil {
			s.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpNotifyStart, err))
		} else {
			np := notify.NewNowPlaying(n, s.albumArt, s.log)
			sub := s.engine.Subscribe()
			g.Go(func() error {
				return np.Run(ctx, sub)
			})
		}
	}

	g.Go(func() error {
		defer cancel()
		return runConsole(ctx)
	})

	return errors.Join(g.Wait(), s.close())
}

// close drops the sink link, stops the transport and releases the source.
func (s *session) close() error {
	var errs []error
	if s.bridge.Connected() {
		if err := s.bridge.Disconnect(); err != nil {
			errs = append(errs, fmt.Errorf("failed to %s: %w", errmsg.OpSinkDisconnect, err))
		}
	}
	if err := s.bridge.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.engine.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// lineConsole serves the console on plain streams.
func (s *session) lineConsole(r io.Reader, w io.Writer) consoleFunc {
	c := s.controller()
	sub := s.engine.Subscribe()
	return func(ctx context.Context) error {
		return console.RunLines(ctx, c, sub, r, w)
	}
}
