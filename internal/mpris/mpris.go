//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavesink/internal/playback"
	"github.com/llehouerou/wavesink/internal/transport"
)

// Adapter exposes the player on the session bus as an MPRIS2 media player.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(opts Options) (*Adapter, error) {
	if opts.Player == nil || opts.Remote == nil {
		return nil, ErrIncomplete
	}
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	a := &Adapter{
		server: server.NewServer(busName(opts.Name), &rootAdapter{identity: opts.Name}, newPlayerAdapter(opts)),
	}

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct {
	identity string
}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - the console owns the lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return r.identity, nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg", "audio/opus"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Commands go
// through the remote key path, so they obey the same busy rules as media
// keys from the sink.
type playerAdapter struct {
	player  Player
	catalog Catalog
	fsys    fs.FS
	root    string
	remote  func(key transport.RemoteKey)
}

func newPlayerAdapter(opts Options) *playerAdapter {
	return &playerAdapter{
		player:  opts.Player,
		catalog: opts.Catalog,
		fsys:    opts.FS,
		root:    opts.Root,
		remote:  opts.Remote,
	}
}

func (p *playerAdapter) Next() error {
	p.remote(transport.KeyForward)
	return nil
}

func (p *playerAdapter) Previous() error {
	p.remote(transport.KeyBackward)
	return nil
}

func (p *playerAdapter) Pause() error {
	p.remote(transport.KeyPause)
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if p.player.State() == playback.StatePlaying {
		return p.Pause()
	}
	return p.Play()
}

func (p *playerAdapter) Stop() error {
	p.remote(transport.KeyStop)
	return nil
}

func (p *playerAdapter) Play() error {
	p.remote(transport.KeyPlay)
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Not supported
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Not supported
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.player.State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	index := p.player.Index()
	if index < 0 {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(index, p.player.CurrentTrackName())),
		Title:       p.player.CurrentTrackName(),
		TrackNumber: index + 1,
	}

	if p.catalog != nil && p.fsys != nil {
		if art := FindAlbumArt(p.fsys, p.catalog.Path(index)); art != "" {
			meta.ArtUrl = "file://" + filepath.Join(p.root, filepath.FromSlash(art))
		}
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil // Volume keys are stepped, not absolute
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// Navigation wraps around the catalog, so any non-empty catalog can move.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.player.TrackCount() > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.player.TrackCount() > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.player.Index() >= 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(index int, name string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s", index, name)
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

// busName reduces name to the characters allowed in a D-Bus name element.
func busName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 || (b.String()[0] >= '0' && b.String()[0] <= '9') {
		return DefaultName
	}
	return b.String()
}
