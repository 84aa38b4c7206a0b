//go:build linux

package mpris

import (
	"io/fs"
	"path"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindAlbumArt looks for album art in the same directory as the track.
// Paths are slash-separated and relative to fsys.
// Returns the art path, or empty string if not found.
func FindAlbumArt(fsys fs.FS, trackPath string) string {
	if trackPath == "" {
		return ""
	}
	dir := path.Dir(trackPath)
	for _, name := range coverNames {
		p := path.Join(dir, name)
		if info, err := fs.Stat(fsys, p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}
