// Package catalog holds the ordered list of playable tracks found under the
// music root.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog"
)

// InvalidName is returned by Name for an index outside the catalog.
const InvalidName = "Invalid"

// ErrNotDirectory is returned by Scan when the music root is not a directory.
var ErrNotDirectory = errors.New("music root is not a directory")

// DefaultExtensions are the track extensions kept by Scan.
var DefaultExtensions = []string{".mp3", ".flac", ".wav", ".ogg", ".opus"}

// Options configures a Catalog.
type Options struct {
	// Root is the music root as shown to the user. Track paths stay relative
	// to the storage filesystem.
	Root       string
	Extensions []string
	// TagNames names tracks "Artist - Title" when the file carries tags.
	TagNames bool
	Logger   zerolog.Logger
}

type entry struct {
	path string
	name string
	size int64
}

// Catalog is safe for concurrent use. A rescan replaces the track list
// while readers keep working with whichever list they observe.
type Catalog struct {
	mu       sync.RWMutex
	fsys     fs.FS
	root     string
	exts     map[string]struct{}
	tagNames bool
	log      zerolog.Logger
	entries  []entry
}

// New creates an empty catalog over fsys. Call Scan to populate it.
func New(fsys fs.FS, opts Options) *Catalog {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, e := range opts.Extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}
	return &Catalog{
		fsys:     fsys,
		root:     opts.Root,
		exts:     exts,
		tagNames: opts.TagNames,
		log:      opts.Logger.With().Str("component", "catalog").Logger(),
	}
}

// Scan clears the catalog and walks the music root recursively, keeping
// playable files sorted by path. On error the catalog stays empty.
func (c *Catalog) Scan() error {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()

	info, err := fs.Stat(c.fsys, ".")
	if err != nil {
		return fmt.Errorf("open music root %s: %w", c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", c.root, ErrNotDirectory)
	}

	c.log.Info().Str("root", c.root).Msg("scanning for tracks")

	var found []entry
	_ = fs.WalkDir(c.fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		// Skip unreadable entries and keep scanning the rest of the tree
		if walkErr != nil {
			c.log.Debug().Err(walkErr).Str("path", p).Msg("skipping entry")
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() {
			return nil
		}
		if !c.playable(p) {
			return nil
		}

		e := entry{path: p, name: baseName(p)}
		if fi, infoErr := d.Info(); infoErr == nil {
			e.size = fi.Size()
		}
		if c.tagNames {
			if n := c.readTagName(p); n != "" {
				e.name = n
			}
		}
		found = append(found, e)
		return nil
	})

	slices.SortFunc(found, func(a, b entry) int {
		return strings.Compare(a.path, b.path)
	})

	c.mu.Lock()
	c.entries = found
	c.mu.Unlock()

	c.log.Info().Int("tracks", len(found)).Msg("scan complete")
	return nil
}

// Count returns the number of tracks.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IsValidIndex reports whether i addresses a track.
func (c *Catalog) IsValidIndex(i int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return i >= 0 && i < len(c.entries)
}

// Path returns the storage path of track i, or "" if i is invalid.
func (c *Catalog) Path(i int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.entries) {
		return ""
	}
	return c.entries[i].path
}

// Name returns the display name of track i, or "Invalid".
func (c *Catalog) Name(i int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.entries) {
		return InvalidName
	}
	return c.entries[i].name
}

// Paths returns a copy of all track paths in order.
func (c *Catalog) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, len(c.entries))
	for i, e := range c.entries {
		paths[i] = e.path
	}
	return paths
}

// FullPath joins the music root and the storage path of track i.
func (c *Catalog) FullPath(i int) string {
	p := c.Path(i)
	if p == "" {
		return ""
	}
	return joinRoot(c.root, p)
}

func (c *Catalog) playable(p string) bool {
	_, ok := c.exts[strings.ToLower(path.Ext(p))]
	return ok
}

func (c *Catalog) readTagName(p string) string {
	f, err := c.fsys.Open(p)
	if err != nil {
		return ""
	}
	defer f.Close()

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		return ""
	}
	m, err := tag.ReadFrom(rs)
	if err != nil {
		c.log.Debug().Err(err).Str("path", p).Msg("no tags")
		return ""
	}
	return tagName(m.Artist(), m.Title())
}

func tagName(artist, title string) string {
	artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
	switch {
	case title == "":
		return ""
	case artist == "":
		return title
	default:
		return artist + " - " + title
	}
}

// baseName strips the directory and extension. A leading dot is kept so
// hidden files are not reduced to an empty name.
func baseName(p string) string {
	name := path.Base(p)
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name
}
