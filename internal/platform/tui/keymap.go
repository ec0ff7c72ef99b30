package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mc2048/internal/autoplay"
)

// KeyMap defines the key bindings for the game screen.
type KeyMap struct {
	Up      key.Binding
	Right   key.Binding
	Down    key.Binding
	Left    key.Binding
	Restart key.Binding
	Step    key.Binding
	Run     key.Binding
	Pause   key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Run, k.Pause, k.Restart, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Right, k.Down, k.Left},
		{k.Step, k.Run, k.Pause},
		{k.Restart, k.Back, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings. WASD and vim keys both move;
// the advisor keys stay clear of them.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Step: key.NewBinding(
			key.WithKeys("n", " "),
			key.WithHelp("n/space", "advised move"),
		),
		Run: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "auto-play"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to driver commands.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to a command.
// Returns the command (may be CmdNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (cmd autoplay.Command, isQuit bool) {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return autoplay.CmdNone, true
	case key.Matches(msg, km.keys.Up):
		return autoplay.CmdUp, false
	case key.Matches(msg, km.keys.Right):
		return autoplay.CmdRight, false
	case key.Matches(msg, km.keys.Down):
		return autoplay.CmdDown, false
	case key.Matches(msg, km.keys.Left):
		return autoplay.CmdLeft, false
	case key.Matches(msg, km.keys.Restart):
		return autoplay.CmdRestart, false
	case key.Matches(msg, km.keys.Step):
		return autoplay.CmdStep, false
	case key.Matches(msg, km.keys.Run):
		return autoplay.CmdRun, false
	case key.Matches(msg, km.keys.Pause):
		return autoplay.CmdPause, false
	}
	return autoplay.CmdNone, false
}

// IsHelp reports whether msg toggles the full help view.
func (km *KeyMapper) IsHelp(msg tea.KeyMsg) bool {
	return key.Matches(msg, km.keys.Help)
}

// IsBack reports whether msg leaves the game screen.
func (km *KeyMapper) IsBack(msg tea.KeyMsg) bool {
	return key.Matches(msg, km.keys.Back)
}
