package catalog

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"b/02 second.mp3":    {Data: make([]byte, 1000)},
		"b/01 first.MP3":     {Data: make([]byte, 2000)},
		"a.flac":             {Data: make([]byte, 500)},
		"notes.txt":          {Data: []byte("x")},
		"c/deep/track.Wav":   {Data: make([]byte, 10)},
		"c/cover.jpg":        {Data: []byte("jpg")},
		".hidden/.mp3":       {Data: []byte("x")},
		"album.mp3/song.m4a": {Data: []byte("x")},
	}
}

func newTestCatalog(t *testing.T, fsys fstest.MapFS, opts Options) *Catalog {
	t.Helper()
	opts.Logger = zerolog.Nop()
	c := New(fsys, opts)
	require.NoError(t, c.Scan())
	return c
}

func TestScan_FindsPlayableFilesSorted(t *testing.T) {
	c := newTestCatalog(t, testFS(), Options{Root: "/music"})

	assert.Equal(t, []string{
		".hidden/.mp3",
		"a.flac",
		"b/01 first.MP3",
		"b/02 second.mp3",
		"c/deep/track.Wav",
	}, c.Paths())
	assert.Equal(t, 5, c.Count())
}

func TestScan_CustomExtensions(t *testing.T) {
	c := newTestCatalog(t, testFS(), Options{Extensions: []string{"MP3"}})

	assert.Equal(t, []string{".hidden/.mp3", "b/01 first.MP3", "b/02 second.mp3"}, c.Paths())
}

func TestScan_RootErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "missing")
		c := New(os.DirFS(root), Options{Root: root, Logger: zerolog.Nop()})

		err := c.Scan()

		require.ErrorIs(t, err, fs.ErrNotExist)
		assert.Zero(t, c.Count())
	})

	t.Run("rescan failure leaves catalog empty", func(t *testing.T) {
		c := newTestCatalog(t, testFS(), Options{})
		require.Positive(t, c.Count())

		c.fsys = fileRoot{}
		err := c.Scan()

		require.ErrorIs(t, err, ErrNotDirectory)
		assert.Zero(t, c.Count())
	})
}

// fileRoot is a filesystem whose root is a regular file.
type fileRoot struct{}

func (fileRoot) Open(string) (fs.File, error) {
	return fstest.MapFS{"root": {Data: []byte("x")}}.Open("root")
}

func TestNameAndPath(t *testing.T) {
	c := newTestCatalog(t, testFS(), Options{})

	tests := []struct {
		index    int
		wantName string
		wantPath string
	}{
		{0, ".mp3", ".hidden/.mp3"},
		{1, "a", "a.flac"},
		{2, "01 first", "b/01 first.MP3"},
		{4, "track", "c/deep/track.Wav"},
		{-1, InvalidName, ""},
		{5, InvalidName, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantName, c.Name(tt.index), "Name(%d)", tt.index)
		assert.Equal(t, tt.wantPath, c.Path(tt.index), "Path(%d)", tt.index)
		assert.Equal(t, tt.wantPath != "", c.IsValidIndex(tt.index), "IsValidIndex(%d)", tt.index)
	}
}

func TestTagName(t *testing.T) {
	tests := []struct {
		artist, title, want string
	}{
		{"Artist", "Title", "Artist - Title"},
		{"", "Title", "Title"},
		{"Artist", "", ""},
		{"  ", "  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tagName(tt.artist, tt.title))
	}
}

func TestScan_TagNamesFallBackToFileName(t *testing.T) {
	c := newTestCatalog(t, fstest.MapFS{"x/untagged.mp3": {Data: []byte("not really audio")}}, Options{TagNames: true})

	assert.Equal(t, "untagged", c.Name(0))
}

func TestPrint(t *testing.T) {
	c := newTestCatalog(t, fstest.MapFS{
		"a.mp3": {Data: []byte("a")},
		"b.mp3": {Data: []byte("b")},
	}, Options{Root: "/music/"})

	var buf bytes.Buffer
	require.NoError(t, c.Print(&buf, 1))

	want := "\n--- Playlist ---\n" +
		"    1: a\n" +
		" >  2: b\n" +
		"     Path: /music/b.mp3\n" +
		"Total: 2 tracks\n" +
		"----------------\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, "/music/b.mp3", c.FullPath(1))
}

func TestPrint_Empty(t *testing.T) {
	c := newTestCatalog(t, fstest.MapFS{}, Options{})

	var buf bytes.Buffer
	require.NoError(t, c.Print(&buf, -1))

	assert.Contains(t, buf.String(), "No tracks found")
	assert.NotContains(t, buf.String(), "Total")
}

func TestSummary(t *testing.T) {
	c := newTestCatalog(t, testFS(), Options{})

	assert.Equal(t, "5 tracks, 3.5 kB", c.Summary())
}
