package console

import "github.com/charmbracelet/bubbles/key"

// Binding describes a console key for the help text.
type Binding struct {
	Keys        string
	Description string
}

// Bindings lists the console keys in help order.
var Bindings = []Binding{
	{"c", "Connect to the sink"},
	{"d", "Disconnect"},
	{"p", "Pause/Resume"},
	{"n", "Next track"},
	{"b", "Previous track"},
	{"l", "List playlist"},
	{"r", "Rescan music folder"},
	{"1-9", "Play track number (1-9)"},
	{"+", "Volume up"},
	{"-", "Volume down"},
	{"s", "Show current status"},
	{"h", "Show help"},
	{"q", "Quit"},
}

// keyMap holds the bindings shown in the UI footer.
type keyMap struct {
	Toggle  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Connect key.Binding
	List    key.Binding
	Volume  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Prev:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "prev")),
		Connect: key.NewBinding(key.WithKeys("c", "d"), key.WithHelp("c/d", "connect/disconnect")),
		List:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "list")),
		Volume:  key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "volume")),
		Help:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Prev, k.Connect, k.List, k.Volume, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
