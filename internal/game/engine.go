// Package game owns the authoritative 2048 board, the score and the terminal
// flags. Moves, restarts and advisor requests all go through Engine.
package game

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/mc2048/internal/grid"
	"github.com/vovakirdan/mc2048/internal/search"
)

// ErrNoAdvisor is returned by advisor requests on an engine built without one.
var ErrNoAdvisor = errors.New("game: no advisor configured")

// State is the engine's lifecycle state.
type State int

const (
	StateActive State = iota
	StateDead
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Config holds engine settings.
type Config struct {
	Spawn4Prob float64 // Probability of inserting a 4 instead of a 2
}

// DefaultConfig returns the classic 90/10 spawn settings.
func DefaultConfig() Config {
	return Config{Spawn4Prob: grid.DefaultSpawn4Prob}
}

// MoveOutcome reports what a move did.
type MoveOutcome struct {
	Moved      bool
	ScoreDelta int
	Died       bool
}

// Engine is a single 2048 game. It is not safe for concurrent use; the
// advisor only ever sees clones of the board.
type Engine struct {
	cfg     Config
	rng     *rand.Rand
	advisor *search.Advisor

	id        string
	grid      *grid.Grid
	score     int
	lastDelta int
	moves     int
	died      bool
	won       bool // reserved for a target-tile rule, never set
}

// New creates an engine and starts a fresh game. advisor may be nil.
func New(cfg Config, rng *rand.Rand, advisor *search.Advisor) *Engine {
	if cfg.Spawn4Prob < 0 || cfg.Spawn4Prob > 1 {
		cfg.Spawn4Prob = grid.DefaultSpawn4Prob
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	e := &Engine{
		cfg:     cfg,
		rng:     rng,
		advisor: advisor,
	}
	e.Restart()
	return e
}

// Restart discards the current game and starts a new one with two tiles.
func (e *Engine) Restart() {
	e.id = uuid.NewString()
	e.grid = grid.New()
	e.score = 0
	e.lastDelta = 0
	e.moves = 0
	e.died = false
	e.won = false

	e.grid.AddRandomTile(e.rng, e.cfg.Spawn4Prob)
	e.grid.AddRandomTile(e.rng, e.cfg.Spawn4Prob)
}

// Load starts a new game from a copy of g instead of two random tiles. The
// score starts at 0.
func (e *Engine) Load(g *grid.Grid) {
	e.Restart()
	e.grid = g.Clone()
	e.died = e.grid.Dead()
}

// ApplyMove moves the board in dir. A move with no effect, an invalid
// direction, or a move on a dead game changes nothing.
func (e *Engine) ApplyMove(dir grid.Direction) MoveOutcome {
	if e.died || !dir.Valid() {
		return MoveOutcome{Died: e.died}
	}

	res, ok := e.grid.Move(dir)
	if !ok || !res.Moved {
		return MoveOutcome{Died: e.died}
	}

	e.score += res.Score
	e.lastDelta = res.Score
	e.moves++

	e.grid.AddRandomTile(e.rng, e.cfg.Spawn4Prob)
	e.died = e.grid.Dead()

	return MoveOutcome{Moved: true, ScoreDelta: res.Score, Died: e.died}
}

// Advise runs the advisor on a copy of the board.
func (e *Engine) Advise(ctx context.Context) (search.Decision, error) {
	if e.advisor == nil {
		return search.Decision{Direction: search.NoMove}, ErrNoAdvisor
	}
	if e.died {
		return search.Decision{Direction: search.NoMove}, nil
	}
	return e.advisor.ChooseMove(ctx, e.grid.Clone())
}

// RequestAdvisedMove returns the advisor's recommended direction, or false
// when no direction is viable.
func (e *Engine) RequestAdvisedMove(ctx context.Context) (grid.Direction, bool, error) {
	d, err := e.Advise(ctx)
	if err != nil {
		return search.NoMove, false, err
	}
	return d.Direction, d.Found, nil
}

// ID returns the identifier of the current game.
func (e *Engine) ID() string { return e.id }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Moves returns the number of successful moves in the current game.
func (e *Engine) Moves() int { return e.moves }

// Died reports whether the game has ended.
func (e *Engine) Died() bool { return e.died }

// State returns the lifecycle state.
func (e *Engine) State() State {
	if e.died {
		return StateDead
	}
	return StateActive
}

// Grid returns a copy of the board.
func (e *Engine) Grid() *grid.Grid {
	return e.grid.Clone()
}

// Advisor returns the engine's advisor, which may be nil.
func (e *Engine) Advisor() *search.Advisor {
	return e.advisor
}
