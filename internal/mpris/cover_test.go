//go:build linux

package mpris

import (
	"testing"
	"testing/fstest"
)

func TestFindAlbumArt(t *testing.T) {
	fsys := fstest.MapFS{
		"album/cover.jpg": {Data: []byte("fake")},
		"album/track.mp3": {Data: []byte("x")},
	}

	got := FindAlbumArt(fsys, "album/track.mp3")
	if got != "album/cover.jpg" {
		t.Errorf("FindAlbumArt() = %q, want %q", got, "album/cover.jpg")
	}
}

func TestFindAlbumArt_NotFound(t *testing.T) {
	fsys := fstest.MapFS{"album/track.mp3": {Data: []byte("x")}}

	if got := FindAlbumArt(fsys, "album/track.mp3"); got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty string", got)
	}
	if got := FindAlbumArt(fsys, ""); got != "" {
		t.Errorf("FindAlbumArt(\"\") = %q, want empty string", got)
	}
}

func TestFindAlbumArt_Priority(t *testing.T) {
	fsys := fstest.MapFS{
		"folder.jpg": {Data: []byte("fake")},
		"cover.jpg":  {Data: []byte("fake")},
		"track.mp3":  {Data: []byte("x")},
	}

	got := FindAlbumArt(fsys, "track.mp3")
	if got != "cover.jpg" {
		t.Errorf("FindAlbumArt() = %q, want %q (higher priority)", got, "cover.jpg")
	}
}

func TestFindAlbumArt_SkipsDirectories(t *testing.T) {
	fsys := fstest.MapFS{
		"a/cover.jpg/inner": {Data: []byte("x")},
		"a/folder.png":      {Data: []byte("fake")},
	}

	if got := FindAlbumArt(fsys, "a/track.mp3"); got != "a/folder.png" {
		t.Errorf("FindAlbumArt() = %q, want %q", got, "a/folder.png")
	}
}
