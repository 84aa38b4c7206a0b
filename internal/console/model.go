package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/wavesink/internal/playback"
)

// maxLines bounds the log tail kept in memory.
const maxLines = 500

var statusBarStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var (
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	playerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	stderrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// statusBarHeight is the top border, content and bottom border.
const statusBarHeight = 3

// Messages delivered to Model.Update.
type (
	OutputMsg       struct{ Lines []string }
	StateMsg        playback.StateChange
	LogMsg          string
	StderrMsg       string
	EngineClosedMsg struct{}
)

// Model is the terminal UI: a status bar, a log tail and the key help.
type Model struct {
	ctx        context.Context //nolint:containedctx // cancels fades on quit
	controller *Controller
	sub        *playback.Subscription
	stderr     <-chan string

	state playback.StateChange
	lines []string
	keys  keyMap
	help  help.Model

	width  int
	height int
}

// NewModel creates the UI. sub delivers engine events; stderr, when not
// nil, delivers lines captured from C audio libraries.
func NewModel(
	ctx context.Context,
	controller *Controller,
	sub *playback.Subscription,
	stderr <-chan string,
) Model {
	m := Model{
		ctx:        ctx,
		controller: controller,
		sub:        sub,
		stderr:     stderr,
		state:      playback.StateChange{State: playback.StateStopped, Index: -1, Name: playback.NoneName},
		keys:       newKeyMap(),
		help:       help.New(),
	}
	if e := controller.engine; e != nil {
		m.state = playback.StateChange{State: e.State(), Index: e.Index(), Name: e.CurrentTrackName()}
	}
	m.lines = append(m.lines, Help()...)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchEngineEvents(), m.WatchStderr())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
			return m, nil
		}
		return m, m.run(msg.Runes[0])

	case OutputMsg:
		m.appendLines(msg.Lines...)
		return m, nil

	case StateMsg:
		m.state = playback.StateChange(msg)
		return m, m.WatchEngineEvents()

	case LogMsg:
		m.appendLines(playerStyle.Render("[Player] ") + string(msg))
		return m, m.WatchEngineEvents()

	case StderrMsg:
		m.appendLines(stderrStyle.Render(string(msg)))
		return m, m.WatchStderr()

	case EngineClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

// run executes key off the UI goroutine; fades and track opens may block.
func (m Model) run(r rune) tea.Cmd {
	c, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return OutputMsg{Lines: c.Handle(ctx, r)}
	}
}

func (m *Model) appendLines(lines ...string) {
	m.lines = append(m.lines, lines...)
	if over := len(m.lines) - maxLines; over > 0 {
		m.lines = append(m.lines[:0:0], m.lines[over:]...)
	}
}

// WatchEngineEvents waits for the next engine event.
func (m Model) WatchEngineEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateMsg(e)
		case line := <-sub.Logged:
			return LogMsg(line)
		case <-sub.Done:
			return EngineClosedMsg{}
		}
	}
}

// WatchStderr waits for the next captured stderr line.
func (m Model) WatchStderr() tea.Cmd {
	return waitForChannel(m.stderr, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg(line)
	})
}

// waitForChannel waits for a value from ch and converts it to a message.
// ok is false once ch is closed.
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		return onResult(v, ok)
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	bar := statusBarStyle.Width(max(m.width-2, 0)).Render(m.statusLine())
	footer := m.help.View(m.keys)

	logHeight := max(m.height-statusBarHeight-lipgloss.Height(footer), 0)
	tail := m.lines
	if len(tail) > logHeight {
		tail = tail[len(tail)-logHeight:]
	}

	var b strings.Builder
	for _, line := range tail {
		b.WriteString(ansi.Truncate(line, m.width, "…"))
		b.WriteByte('\n')
	}
	for range logHeight - len(tail) {
		b.WriteByte('\n')
	}

	return lipgloss.JoinVertical(lipgloss.Left, bar, strings.TrimSuffix(b.String(), "\n"), footer)
}

func (m Model) statusLine() string {
	var state string
	switch m.state.State {
	case playback.StatePlaying:
		state = playingStyle.Render("▶ Playing")
	case playback.StatePaused:
		state = pausedStyle.Render("⏸ Paused")
	default:
		state = stoppedStyle.Render("■ Stopped")
	}

	parts := []string{state}
	if m.state.Index >= 0 {
		parts = append(parts, m.state.Name)
	}
	if s := m.controller.sink; s != nil {
		if s.Connected() {
			parts = append(parts, "Sink: Connected")
		} else {
			parts = append(parts, "Sink: Disconnected")
		}
	}
	if v := m.controller.volume; v != nil {
		parts = append(parts, "Vol "+strconv.Itoa(v.Level()))
	}

	line := strings.Join(parts, "  ")
	return ansi.Truncate(line, max(m.width-4, 1), "…")
}
