package console

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavesink/internal/playback"
	"github.com/llehouerou/wavesink/internal/volume"
)

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModel_QuitKey(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a")
	m := NewModel(context.Background(), f.c, nil, nil)

	_, cmd := update(t, m, keyMsg('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_KeyRunsCommand(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a", "b")
	m := NewModel(context.Background(), f.c, nil, nil)

	m, cmd := update(t, m, keyMsg('2'))
	require.NotNil(t, cmd)
	msg := cmd()

	assert.Equal(t, OutputMsg{Lines: []string{"Playing track 2"}}, msg)
	assert.Equal(t, 1, f.engine.Index())

	m, _ = update(t, m, msg)
	assert.Equal(t, "Playing track 2", m.lines[len(m.lines)-1])
}

func TestModel_IgnoresNonRuneKeys(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a")
	m := NewModel(context.Background(), f.c, nil, nil)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestModel_EngineEvents(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a", "b")
	sub := f.engine.Subscribe()
	m := NewModel(context.Background(), f.c, sub, nil)

	require.NoError(t, f.engine.Execute(playback.CmdPlayTrack, 1))

	// Both channels are ready; the watcher may deliver either first
	var msgs []tea.Msg
	for range 2 {
		msg := m.WatchEngineEvents()()
		msgs = append(msgs, msg)
		var cmd tea.Cmd
		m, cmd = update(t, m, msg)
		assert.NotNil(t, cmd)
	}

	assert.ElementsMatch(t, []tea.Msg{
		LogMsg("Playing: b"),
		StateMsg{State: playback.StatePlaying, Index: 1, Name: "b"},
	}, msgs)
	assert.Equal(t, playback.StatePlaying, m.state.State)
	assert.Contains(t, ansi.Strip(strings.Join(m.lines, "\n")), "[Player] Playing: b")

	require.NoError(t, f.engine.Close())
	_, cmd := update(t, m, m.WatchEngineEvents()())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_StderrLines(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a")
	lines := make(chan string, 1)
	m := NewModel(context.Background(), f.c, nil, lines)

	lines <- "ALSA lib pcm.c: underrun"
	msg := m.WatchStderr()()
	assert.Equal(t, StderrMsg("ALSA lib pcm.c: underrun"), msg)

	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, "ALSA lib pcm.c: underrun", ansi.Strip(m.lines[len(m.lines)-1]))

	close(lines)
	assert.Nil(t, m.WatchStderr()())
}

func TestModel_NoWatchersWithoutSources(t *testing.T) {
	m := NewModel(context.Background(), NewController(Options{}), nil, nil)

	assert.Nil(t, m.WatchEngineEvents())
	assert.Nil(t, m.WatchStderr())
}

func TestModel_View(t *testing.T) {
	f := newFixture(t, volume.DefaultConfig(), "a", "b")
	m := NewModel(context.Background(), f.c, nil, nil)

	assert.Empty(t, m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 24})
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Stopped")
	assert.Contains(t, view, "Sink: Disconnected")
	assert.Contains(t, view, "Vol 70")
	assert.Contains(t, view, "quit")

	m, _ = update(t, m, StateMsg{State: playback.StatePlaying, Index: 0, Name: "a"})
	view = ansi.Strip(m.View())
	assert.Contains(t, view, "Playing  a")
}

func TestModel_LogTailIsBounded(t *testing.T) {
	m := NewModel(context.Background(), NewController(Options{}), nil, nil)

	for range maxLines + 50 {
		m, _ = update(t, m, OutputMsg{Lines: []string{"line"}})
	}

	assert.Len(t, m.lines, maxLines)
}
