//go:build linux

package notify

import (
	"io/fs"
	"path/filepath"

	"github.com/llehouerou/wavesink/internal/mpris"
)

// FindAlbumArtPath returns the on-disk path of the art next to trackPath,
// a path relative to fsys which is mounted at root.
func FindAlbumArtPath(fsys fs.FS, root, trackPath string) string {
	art := mpris.FindAlbumArt(fsys, trackPath)
	if art == "" {
		return ""
	}
	return filepath.Join(root, filepath.FromSlash(art))
}
