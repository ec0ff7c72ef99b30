package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// SessionConfig configures a menu session.
type SessionConfig struct {
	// Game is the template for every game. A zero Seed gives each game a
	// time-based seed; otherwise game n uses Seed+n.
	Game autoplay.Settings

	// Options is the template for every game screen. Seed and Rollouts
	// are filled in per game.
	Options Options
}

// SessionModel manages the full session flow: menu -> game or scores -> menu.
// This is the top-level model used for SSH sessions and `mc2048 menu`.
type SessionModel struct {
	cfg      SessionConfig
	screen   screen
	menu     MenuModel
	game     GameModel
	scores   ScoreboardModel
	started  int // Games started in this session
	quitting bool
}

// NewSessionModel creates a new session model showing the menu.
func NewSessionModel(cfg SessionConfig) SessionModel {
	m := SessionModel{cfg: cfg}
	m.menu = NewMenuModel(cfg.Options.Width, cfg.Options.Height, m.best())
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Options.Width = wsm.Width
		m.cfg.Options.Height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Late advisor results of a game that was left are dropped here.
	if _, ok := msg.(adviceMsg); ok {
		return m, nil
	}

	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch m.menu.Selected() {
	case MenuNone:
		return m, cmd

	case MenuPlay, MenuWatch:
		driver := m.newGame()
		if m.menu.Selected() == MenuWatch {
			driver.Dispatch(m.game.opts.Context, autoplay.CmdRun) //nolint:errcheck // Raising the flag cannot fail
		}
		m.screen = screenGame
		return m, m.game.Init()

	case MenuScores:
		m.scores = NewScoreboardModel(m.cfg.Options.Store, storage.ModeManual,
			m.cfg.Options.Width, m.cfg.Options.Height)
		m.screen = screenScores
		return m, m.scores.Init()
	}

	m.quitting = true
	return m, tea.Quit
}

// newGame starts the next game of the session and its screen.
func (m *SessionModel) newGame() *autoplay.Driver {
	settings := m.cfg.Game
	if settings.Seed == 0 {
		settings.Seed = time.Now().UnixNano()
	} else {
		settings.Seed += int64(m.started)
	}
	m.started++

	opts := m.cfg.Options
	opts.Seed = settings.Seed
	opts.Rollouts = settings.Search.Rollouts

	driver := autoplay.NewGame(settings, opts.Logger)
	m.game = NewGameModel(driver, opts)
	return driver
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(GameModel)

	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// updateScores handles updates when the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(adviceMsg); ok {
		return m, nil
	}

	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	if m.scores.GoingBack() {
		return m.backToMenu()
	}
	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// backToMenu resets the menu. The child's quit command is dropped.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.cfg.Options.Width, m.cfg.Options.Height, m.best())
	return m, m.menu.Init()
}

// best reads the best recorded score across modes.
func (m SessionModel) best() int {
	store := m.cfg.Options.Store
	if store == nil {
		return 0
	}
	best := 0
	for _, mode := range scoreboardModes {
		if high, err := store.HighScore(mode); err == nil && high > best {
			best = high
		}
	}
	return best
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	}
	return m.menu.View()
}

// IsQuitting returns true if user requested to quit.
func (m SessionModel) IsQuitting() bool {
	return m.quitting
}

// RunSession runs the menu session in the current terminal.
func RunSession(cfg SessionConfig) error {
	p := tea.NewProgram(
		NewSessionModel(cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
