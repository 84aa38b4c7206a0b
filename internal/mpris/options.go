package mpris

import (
	"errors"
	"io/fs"

	"github.com/llehouerou/wavesink/internal/playback"
	"github.com/llehouerou/wavesink/internal/transport"
)

// ErrIncomplete is returned when Options lacks the player or remote handler.
var ErrIncomplete = errors.New("mpris: player and remote handler are required")

// Player is the read side of the playback engine.
type Player interface {
	State() playback.State
	Index() int
	CurrentTrackName() string
	TrackCount() int
}

// Catalog resolves the storage path of a track.
type Catalog interface {
	Path(i int) string
}

// DefaultName is used when Options.Name is empty.
const DefaultName = "wavesink"

// Options configures an Adapter.
type Options struct {
	// Name is the player identity shown by desktop media widgets.
	Name   string
	Player Player
	// Remote receives media key presses, typically Bridge.Remote.
	Remote func(key transport.RemoteKey)
	// Catalog, FS and Root are used to find album art next to tracks.
	// Art lookup is skipped when any of them is missing.
	Catalog Catalog
	FS      fs.FS
	Root    string
}
