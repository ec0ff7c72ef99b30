package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MenuAction is what a menu entry starts.
type MenuAction int

const (
	MenuNone   MenuAction = iota
	MenuPlay              // New game, player in control
	MenuWatch             // New game with auto-play on
	MenuScores            // Scoreboard
	MenuQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Title  string
	Action MenuAction
}

// DefaultMenuItems returns the entries of the start menu.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Title: "Play", Action: MenuPlay},
		{Title: "Watch the advisor", Action: MenuWatch},
		{Title: "High scores", Action: MenuScores},
		{Title: "Quit", Action: MenuQuit},
	}
}

// MenuKeyMap defines the key bindings for the menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Scores key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Scores: key.NewBinding(key.WithKeys("tab")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	best     int
	keys     MenuKeyMap
	selected MenuAction
}

// NewMenuModel creates a new menu model. best is shown under the title
// when positive.
func NewMenuModel(width, height, best int) MenuModel {
	return MenuModel{
		items:  DefaultMenuItems(),
		width:  width,
		height: height,
		best:   best,
		keys:   DefaultMenuKeyMap(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.selected = MenuQuit
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		m.selected = m.items[m.cursor].Action
		return m, tea.Quit

	case key.Matches(msg, m.keys.Scores):
		m.selected = MenuScores
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.selected != MenuNone {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  2 0 4 8  "), m.width))
	b.WriteString("\n\n")
	if m.best > 0 {
		b.WriteString(centerText(statusStyle.Render(fmt.Sprintf("best %d", m.best)), m.width))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(helpStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen action, MenuNone while the menu is open.
func (m MenuModel) Selected() MenuAction {
	return m.selected
}
