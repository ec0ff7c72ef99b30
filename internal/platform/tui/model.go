package tui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/search"
	"github.com/vovakirdan/mc2048/internal/storage"
)

// Options configures a game screen.
type Options struct {
	Interval time.Duration  // Pause between auto-play moves
	Seed     int64          // Recorded with finished games
	Rollouts int            // Recorded with finished games
	Store    *storage.Store // nil disables saving
	Logger   *log.Logger
	Context  context.Context // Cancels advisor work, e.g. an SSH session
	Width    int
	Height   int
}

// adviceMsg carries a finished advisor computation back to Update.
type adviceMsg struct {
	advice autoplay.Advice
	err    error
}

// GameModel is the Bubble Tea model for one 2048 game with the advisor.
type GameModel struct {
	driver    *autoplay.Driver
	opts      Options
	keyMapper *KeyMapper
	help      help.Model

	advising   bool            // An advisor command is in flight
	lastAdvice search.Decision // Shown under the board
	usedAdvice bool            // Any advised move in this game
	status     string
	best       int
	saved      bool
	back       bool // Left with the back key
	quitting   bool
}

// NewGameModel creates a game screen for driver.
func NewGameModel(driver *autoplay.Driver, opts Options) GameModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	h := help.New()
	h.ShowAll = false
	h.Width = opts.Width

	m := GameModel{
		driver:    driver,
		opts:      opts,
		keyMapper: NewKeyMapper(),
		help:      h,
	}
	m.loadBest()
	return m
}

// Init initializes the model.
func (m GameModel) Init() tea.Cmd {
	if m.driver.Running() {
		return tickCmd(m.opts.Interval)
	}
	return nil
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.opts.Width = msg.Width
		m.opts.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	case adviceMsg:
		return m.handleAdvice(msg)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.IsHelp(msg) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.keyMapper.IsBack(msg) {
		m.driver.Dispatch(m.opts.Context, autoplay.CmdPause) //nolint:errcheck // Pause cannot fail
		m.back = true
		return m, tea.Quit
	}

	cmd, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.driver.Dispatch(m.opts.Context, autoplay.CmdPause) //nolint:errcheck // Pause cannot fail
		m.quitting = true
		return m, tea.Quit
	}

	switch cmd {
	case autoplay.CmdNone:
		return m, nil

	case autoplay.CmdStep:
		m.status = ""
		return m.requestAdvice()

	case autoplay.CmdRun:
		if m.driver.Snapshot().Died {
			return m, nil
		}
		m.driver.Dispatch(m.opts.Context, autoplay.CmdRun) //nolint:errcheck // Raising the flag cannot fail
		m.status = "auto-play"
		return m.requestAdvice()

	case autoplay.CmdPause:
		m.driver.Dispatch(m.opts.Context, autoplay.CmdPause) //nolint:errcheck // Pause cannot fail
		m.status = "paused"
		return m, nil

	case autoplay.CmdRestart:
		m.driver.Dispatch(m.opts.Context, autoplay.CmdRestart) //nolint:errcheck // Restart cannot fail
		m.saved = false
		m.usedAdvice = false
		m.lastAdvice = search.Decision{}
		m.status = ""
		m.loadBest()
		return m, nil
	}

	// Manual move. Pending advice becomes stale and is dropped by Apply.
	out, err := m.driver.Dispatch(m.opts.Context, cmd)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if out.Died {
		m.finish()
	}
	return m, nil
}

// requestAdvice starts an advisor computation unless one is running.
func (m GameModel) requestAdvice() (tea.Model, tea.Cmd) {
	if m.advising || m.driver.Snapshot().Died {
		return m, nil
	}
	m.advising = true

	driver, ctx := m.driver, m.opts.Context
	return m, func() tea.Msg {
		a, err := driver.Advise(ctx)
		return adviceMsg{advice: a, err: err}
	}
}

// handleAdvice applies a finished decision and schedules the next one
// while auto-play is on.
func (m GameModel) handleAdvice(msg adviceMsg) (tea.Model, tea.Cmd) {
	m.advising = false

	if msg.err != nil {
		m.driver.Dispatch(m.opts.Context, autoplay.CmdPause) //nolint:errcheck // Pause cannot fail
		m.status = "advisor: " + msg.err.Error()
		m.opts.Logger.Warn("advisor failed", "error", msg.err)
		return m, nil
	}

	out, applied := m.driver.Apply(msg.advice)
	if applied {
		m.lastAdvice = msg.advice.Decision
		m.usedAdvice = true
	} else if !msg.advice.Decision.Found {
		m.lastAdvice = msg.advice.Decision
	}

	if out.Died || m.driver.Snapshot().Died {
		m.driver.Dispatch(m.opts.Context, autoplay.CmdPause) //nolint:errcheck // Pause cannot fail
		m.finish()
		return m, nil
	}

	if m.driver.Running() {
		return m, tickCmd(m.opts.Interval)
	}
	return m, nil
}

// handleTick asks for the next auto-play move.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.driver.Running() {
		return m, nil
	}
	return m.requestAdvice()
}

// finish records the game once when it ends.
func (m *GameModel) finish() {
	m.status = "game over"
	if m.saved {
		return
	}
	m.saved = true

	if m.opts.Store == nil {
		return
	}

	res := m.driver.Result()
	mode := storage.ModeManual
	rollouts := 0
	if m.usedAdvice {
		mode = storage.ModeAuto
		rollouts = m.opts.Rollouts
	}

	err := m.opts.Store.SaveGame(storage.GameRecord{
		ID:       res.ID,
		Mode:     mode,
		Score:    res.Score,
		MaxTile:  res.MaxTile,
		Moves:    res.Moves,
		Seed:     m.opts.Seed,
		Rollouts: rollouts,
		Duration: res.Duration,
	})
	if err != nil {
		m.opts.Logger.Warn("could not save game", "game", res.ID, "error", err)
		return
	}
	if res.Score > m.best {
		m.best = res.Score
	}
}

// loadBest reads the best recorded score across modes.
func (m *GameModel) loadBest() {
	if m.opts.Store == nil {
		return
	}
	for _, mode := range []storage.Mode{storage.ModeManual, storage.ModeAuto} {
		if high, err := m.opts.Store.HighScore(mode); err == nil && high > m.best {
			m.best = high
		}
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	snap := m.driver.Snapshot()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("2 0 4 8"))
	b.WriteString("\n\n")
	b.WriteString(renderHUD(snap, m.best))
	b.WriteString("\n")
	b.WriteString(renderBoard(snap))
	b.WriteString("\n")

	switch {
	case snap.Died:
		b.WriteString(alertStyle.Render("GAME OVER") + statusStyle.Render("  press r to restart"))
	case m.advising:
		b.WriteString(statusStyle.Render("thinking..."))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if advice := renderAdvice(m.lastAdvice); advice != "" {
		b.WriteString(advice)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keyMapper.Keys())))

	if m.opts.Width <= 0 {
		return b.String()
	}
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = centerText(line, m.opts.Width)
	}
	return strings.Join(lines, "\n")
}

// IsQuitting returns true if user requested to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user left the game with the back key.
func (m GameModel) BackToMenu() bool {
	return m.back
}

// RunGame runs the game screen in the current terminal until the user quits.
func RunGame(driver *autoplay.Driver, opts Options) error {
	p := tea.NewProgram(
		NewGameModel(driver, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
