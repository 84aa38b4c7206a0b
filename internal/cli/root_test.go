package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func musicDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{"one.mp3", "two.MP3", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("1234"), 0o600))
	}
	return root
}

func TestListCommand(t *testing.T) {
	root := musicDir(t)

	out := execute(t, "list", "--root", root)

	assert.Contains(t, out, "--- Playlist ---")
	assert.Contains(t, out, " 1: one")
	assert.Contains(t, out, " 2: two")
	assert.Contains(t, out, "Total: 2 tracks")
	assert.NotContains(t, out, "notes")
}

func TestScanCommand(t *testing.T) {
	root := musicDir(t)

	out := execute(t, "scan", "--root", root)

	assert.Equal(t, root+": 2 tracks, 8 B\n", out)
}

func TestFlagsOverrideConfig(t *testing.T) {
	root := musicDir(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("music_root = \"/nowhere\"\n[log]\nlevel = \"warn\"\n"), 0o600))

	execute(t, "scan", "--config", cfgPath, "--root", root, "--log-level", "debug")

	assert.Equal(t, root, cfg.MusicRoot)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")

	assert.Contains(t, out, "wavesink dev")
}
