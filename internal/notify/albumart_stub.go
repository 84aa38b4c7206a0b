//go:build !linux

package notify

import "io/fs"

// FindAlbumArtPath returns empty on non-Linux platforms.
// Desktop notifications are only supported on Linux via D-Bus.
func FindAlbumArtPath(_ fs.FS, _, _ string) string {
	return ""
}
