// Package console is the command surface: single-key commands translated to
// engine, sink and catalog operations, with a bubbletea UI and a line mode.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavesink/internal/errmsg"
	"github.com/llehouerou/wavesink/internal/playback"
)

// KeyQuit ends the console. Front ends handle it before calling Handle.
const KeyQuit = 'q'

// Engine is the playback surface the console drives.
type Engine interface {
	State() playback.State
	Index() int
	TrackCount() int
	CurrentTrackName() string
	Execute(cmd playback.Command, arg int) error
}

// Sink is the connection surface.
type Sink interface {
	Connect() error
	Disconnect() error
	Connected() bool
}

// Catalog is the track list surface.
type Catalog interface {
	Scan() error
	Count() int
	Name(i int) string
	Print(w io.Writer, current int) error
	Summary() string
}

// Volume is the user volume surface.
type Volume interface {
	Level() int
	Up() (int, error)
	Down() (int, error)
	Apply() error
	FadeOut(ctx context.Context) error
	FadeIn(ctx context.Context) error
}

// Options wires the console. Any component may be left nil; commands that
// need it then report it as unavailable.
type Options struct {
	Engine  Engine
	Sink    Sink
	Catalog Catalog
	Volume  Volume
	Logger  zerolog.Logger
}

// Controller executes console keys. It holds no UI state and is safe for
// use from one goroutine at a time.
type Controller struct {
	engine  Engine
	sink    Sink
	catalog Catalog
	volume  Volume
	log     zerolog.Logger
}

// NewController creates a Controller from opts.
func NewController(opts Options) *Controller {
	return &Controller{
		engine:  opts.Engine,
		sink:    opts.Sink,
		catalog: opts.Catalog,
		volume:  opts.Volume,
		log:     opts.Logger.With().Str("component", "console").Logger(),
	}
}

// Handle runs the command bound to key and returns the lines to show.
// Unknown keys print the help.
func (c *Controller) Handle(ctx context.Context, key rune) []string {
	c.log.Debug().Str("key", string(key)).Msg("command")

	switch key {
	case 'c':
		if c.sink == nil {
			return unavailable("Sink")
		}
		return failure(errmsg.OpSinkConnect, c.sink.Connect())
	case 'd':
		if c.sink == nil {
			return unavailable("Sink")
		}
		return failure(errmsg.OpSinkDisconnect, c.sink.Disconnect())
	case 'p':
		if c.engine == nil {
			return unavailable("Player")
		}
		return c.toggle(ctx)
	case 'n':
		if c.engine == nil {
			return unavailable("Player")
		}
		return failure(errmsg.OpPlaybackNext, c.engine.Execute(playback.CmdNextTrack, 0))
	case 'b':
		if c.engine == nil {
			return unavailable("Player")
		}
		return failure(errmsg.OpPlaybackPrev, c.engine.Execute(playback.CmdPrevTrack, 0))
	case 'l':
		return c.list()
	case 'r':
		return c.rescan()
	case 's':
		return c.Status()
	case '+':
		return c.changeVolume(playback.CmdVolumeUp)
	case '-':
		return c.changeVolume(playback.CmdVolumeDown)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return c.selectTrack(int(key - '1'))
	default:
		return Help()
	}
}

// toggle pauses a playing engine and resumes anything else. With a sink the
// volume fades around the transition and the user level is restored.
func (c *Controller) toggle(ctx context.Context) []string {
	if c.engine.State() == playback.StatePlaying {
		if c.sink != nil && c.volume != nil {
			if err := c.volume.FadeOut(ctx); err != nil {
				c.log.Warn().Err(err).Msg("fade out")
			}
		}
		err := c.engine.Execute(playback.CmdPause, 0)
		if c.sink != nil && c.volume != nil {
			if applyErr := c.volume.Apply(); applyErr != nil {
				c.log.Warn().Err(applyErr).Msg("restore volume")
			}
		}
		return failure(errmsg.OpPlaybackPause, err)
	}

	if err := c.engine.Execute(playback.CmdPlay, 0); err != nil {
		if errors.Is(err, playback.ErrRejected) {
			return []string{"Nothing to play. Select a track first."}
		}
		return failure(errmsg.OpPlaybackStart, err)
	}
	if c.sink != nil && c.volume != nil {
		if err := c.volume.FadeIn(ctx); err != nil {
			c.log.Warn().Err(err).Msg("fade in")
		}
	}
	return nil
}

func (c *Controller) list() []string {
	if c.catalog == nil {
		return unavailable("Catalog")
	}
	current := -1
	if c.engine != nil {
		current = c.engine.Index()
	}
	var b strings.Builder
	if err := c.catalog.Print(&b, current); err != nil {
		return failure(errmsg.OpCatalogList, err)
	}
	return splitLines(b.String())
}

func (c *Controller) rescan() []string {
	if c.catalog == nil {
		return unavailable("Catalog")
	}
	lines := []string{"Rescanning music folder..."}
	if err := c.catalog.Scan(); err != nil {
		c.log.Error().Err(err).Msg("rescan")
		return append(lines, "Scan failed.", errmsg.Format(errmsg.OpCatalogScan, err))
	}
	return append(lines,
		fmt.Sprintf("Scan completed. Found %d tracks.", c.catalog.Count()),
		c.catalog.Summary(),
	)
}

func (c *Controller) changeVolume(cmd playback.Command) []string {
	if c.engine == nil {
		return unavailable("Player")
	}
	if err := c.engine.Execute(cmd, 0); err != nil {
		return failure(errmsg.OpVolumeSet, err)
	}
	if c.volume == nil {
		return unavailable("Volume")
	}
	if c.sink == nil {
		return []string{fmt.Sprint(c.volume.Level())}
	}

	change := c.volume.Up
	if cmd == playback.CmdVolumeDown {
		change = c.volume.Down
	}
	level, err := change()
	if err != nil {
		return failure(errmsg.OpVolumeSet, err)
	}
	return []string{fmt.Sprint(level)}
}

// selectTrack plays the zero-based catalog entry i.
func (c *Controller) selectTrack(i int) []string {
	if c.engine == nil || c.catalog == nil {
		return []string{"Error: Player or catalog not available"}
	}
	if i >= c.catalog.Count() {
		return []string{"Track number out of range"}
	}
	lines := []string{fmt.Sprintf("Playing track %d", i+1)}
	if err := c.engine.Execute(playback.CmdPlayTrack, i); err != nil {
		lines = append(lines, errmsg.FormatWith(errmsg.OpPlaybackSelect, c.catalog.Name(i), err))
	}
	return lines
}

// Status describes the catalog, engine and sink.
func (c *Controller) Status() []string {
	lines := []string{"", "--- Status ---"}

	if c.catalog != nil {
		lines = append(lines, fmt.Sprintf("Playlist: %d tracks", c.catalog.Count()))
	} else {
		lines = append(lines, "Playlist: Not available")
	}

	if c.engine != nil {
		if i := c.engine.Index(); i >= 0 {
			lines = append(lines, fmt.Sprintf("Current: %d - %s", i+1, c.engine.CurrentTrackName()))
		} else {
			lines = append(lines, "Current: None")
		}
		lines = append(lines, "State: "+c.engine.State().String())
	} else {
		lines = append(lines, "Player: Not available")
	}

	switch {
	case c.sink == nil:
		lines = append(lines, "Sink: Not available")
	case c.sink.Connected():
		lines = append(lines, "Sink: Connected")
	default:
		lines = append(lines, "Sink: Disconnected")
	}

	if c.volume != nil {
		lines = append(lines, fmt.Sprintf("Volume: %d", c.volume.Level()))
	}
	return append(lines, "-------------")
}

// Help lists the console keys.
func Help() []string {
	lines := []string{"", "--- wavesink ---", "Commands:"}
	for _, b := range Bindings {
		lines = append(lines, fmt.Sprintf(" %s - %s", b.Keys, b.Description))
	}
	return append(lines, "------------------------------------")
}

func unavailable(component string) []string {
	return []string{"Error: " + component + " not available"}
}

// failure formats err for op, or returns nothing when err is nil.
func failure(op errmsg.Op, err error) []string {
	if err == nil {
		return nil
	}
	return []string{errmsg.Format(op, err)}
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
