package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mc2048/internal/storage"
)

const maxScores = 100

// scoreboardModes is the tab order of the scoreboard.
var scoreboardModes = []storage.Mode{storage.ModeManual, storage.ModeAuto}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextMode, k.PrevMode},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists recorded games per mode.
type ScoreboardModel struct {
	store     *storage.Store
	cursor    int // Index into scoreboardModes
	games     []storage.GameRecord
	stats     *storage.Stats
	err       error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a scoreboard starting on the given mode.
func NewScoreboardModel(store *storage.Store, mode storage.Mode, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, md := range scoreboardModes {
		if md == mode {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	m.load()
	return m
}

// Mode returns the mode currently shown.
func (m ScoreboardModel) Mode() storage.Mode {
	return scoreboardModes[m.cursor]
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Max", Width: 6},
		{Title: "Moves", Width: 7},
		{Title: "Date", Width: 14},
	}

	height := m.height - 10
	if height < 5 {
		height = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads games and stats for the current mode.
func (m *ScoreboardModel) load() {
	m.games, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		m.games, m.err = m.store.TopGames(m.Mode(), maxScores)
		if m.err == nil {
			m.stats, m.err = m.store.Stats(m.Mode())
		}
	}

	rows := make([]table.Row, len(m.games))
	for i, g := range m.games {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", g.Score),
			fmt.Sprintf("%d", g.MaxTile),
			fmt.Sprintf("%d", g.Moves),
			g.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode):
			m.cursor = (m.cursor + 1) % len(scoreboardModes)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.cursor = (m.cursor + len(scoreboardModes) - 1) % len(scoreboardModes)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("HIGH SCORES"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(alertStyle.Render(m.err.Error()))
	case len(m.games) == 0:
		b.WriteString(statusStyle.Render("No games recorded yet."))
	default:
		b.WriteString(boardStyle.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(m.renderStats())
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(scoreboardModes))
	for i, md := range scoreboardModes {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(string(md))
		} else {
			tabs[i] = tabStyle.Render(string(md))
		}
	}
	return strings.Join(tabs, " ")
}

func (m ScoreboardModel) renderStats() string {
	if m.stats == nil {
		return ""
	}
	return statusStyle.Render(fmt.Sprintf("%d games  avg %.0f  best %d  best tile %d",
		m.stats.GamesCount, m.stats.AvgScore, m.stats.HighScore, m.stats.BestTile))
}

// IsQuitting returns true if user requested to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// GoingBack returns true if the user left with the back key.
func (m ScoreboardModel) GoingBack() bool {
	return m.goingBack
}

// RunScoreboard shows the scoreboard in the current terminal.
func RunScoreboard(store *storage.Store, mode storage.Mode, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, mode, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
