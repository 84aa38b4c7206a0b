package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavesink/internal/playback"
	"github.com/llehouerou/wavesink/internal/volume"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunLines_FirstCharacterPerLine(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a", "b", "c")
	var out bytes.Buffer

	err := RunLines(context.Background(), f.c, nil, strings.NewReader("n extra\n\n  s\nq\nn\n"), &out)

	require.NoError(t, err)
	// Only the first n ran; input after q is ignored
	assert.Equal(t, 0, f.engine.Index())
	assert.Contains(t, out.String(), "--- wavesink ---")
	assert.Contains(t, out.String(), "Current: 1 - a")
}

func TestRunLines_EndOfInput(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a", "b")
	var out bytes.Buffer

	err := RunLines(context.Background(), f.c, nil, strings.NewReader("2\n"), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Playing track 2\n")
	assert.Equal(t, playback.StatePlaying, f.engine.State())
}

func TestRunLines_ContextCancel(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a")
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunLines(ctx, f.c, f.engine.Subscribe(), r, io.Discard)
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunLines did not return after cancel")
	}
}

func TestRunLines_PrintsEngineLogs(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a")
	sub := f.engine.Subscribe()
	r, w := io.Pipe()
	var out syncBuffer

	done := make(chan error, 1)
	go func() {
		done <- RunLines(context.Background(), f.c, sub, r, &out)
	}()

	_, err := io.WriteString(w, "1\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[Player] Playing: a")
	}, time.Second, 5*time.Millisecond)

	_, err = io.WriteString(w, "q\n")
	require.NoError(t, err)
	require.NoError(t, <-done)
	w.Close()
}
