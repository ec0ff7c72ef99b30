package autoplay

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mc2048/internal/game"
	"github.com/vovakirdan/mc2048/internal/grid"
	"github.com/vovakirdan/mc2048/internal/search"
)

// Advice is an advisor decision for a specific board state.
type Advice struct {
	GameID   string
	Moves    int // Engine move count the decision was computed for
	Decision search.Decision
}

// Turn describes one applied advised move.
type Turn struct {
	GameID      string
	Turn        int // Zero-based index of the move in the game
	Board       [grid.Size][grid.Size]int
	ScoreBefore int
	Decision    search.Decision
	Outcome     game.MoveOutcome
	After       [grid.Size][grid.Size]int // Board after the move and the new tile
}

// Observer receives every advised move the driver applies. It runs with the
// driver locked and must not call back into it.
type Observer func(Turn)

// GameResult summarizes a finished game.
type GameResult struct {
	ID       string
	Score    int
	MaxTile  int
	Moves    int
	Duration time.Duration
}

// Driver serializes access to an engine. Commands may arrive from any
// goroutine; the auto-play flag can be flipped while Run is in progress.
type Driver struct {
	mu       sync.Mutex
	engine   *game.Engine
	observer Observer
	logger   *log.Logger

	running atomic.Bool
	started time.Time
}

// New creates a driver for engine. A nil logger discards output.
func New(engine *game.Engine, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		engine:  engine,
		logger:  logger,
		started: time.Now(),
	}
}

// SetObserver installs fn as the advised-move observer. nil removes it.
func (d *Driver) SetObserver(fn Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observer = fn
}

// Running reports whether auto-play is enabled.
func (d *Driver) Running() bool {
	return d.running.Load()
}

// Snapshot returns the engine snapshot.
func (d *Driver) Snapshot() game.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Snapshot()
}

// Dispatch executes cmd synchronously. CmdRun only raises the auto-play flag;
// the moves are made by Run or by the caller's own scheduling.
func (d *Driver) Dispatch(ctx context.Context, cmd Command) (game.MoveOutcome, error) {
	if dir, ok := cmd.Direction(); ok {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.engine.ApplyMove(dir), nil
	}

	switch cmd {
	case CmdRestart:
		d.running.Store(false)
		d.mu.Lock()
		d.engine.Restart()
		d.started = time.Now()
		d.mu.Unlock()
		return game.MoveOutcome{}, nil
	case CmdStep:
		out, _, err := d.Step(ctx)
		return out, err
	case CmdRun:
		d.running.Store(true)
		return game.MoveOutcome{}, nil
	case CmdPause:
		d.running.Store(false)
		return game.MoveOutcome{}, nil
	case CmdNone:
		return game.MoveOutcome{}, nil
	}
	return game.MoveOutcome{}, fmt.Errorf("autoplay: unknown command %v", cmd)
}

// Advise computes a decision for the current board without holding the
// engine while the rollouts run.
func (d *Driver) Advise(ctx context.Context) (Advice, error) {
	d.mu.Lock()
	adv := d.engine.Advisor()
	g := d.engine.Grid()
	a := Advice{
		GameID:   d.engine.ID(),
		Moves:    d.engine.Moves(),
		Decision: search.Decision{Direction: search.NoMove},
	}
	died := d.engine.Died()
	d.mu.Unlock()

	if adv == nil {
		return a, game.ErrNoAdvisor
	}
	if died {
		return a, nil
	}

	decision, err := adv.ChooseMove(ctx, g)
	if err != nil {
		return a, err
	}
	a.Decision = decision
	return a, nil
}

// Apply plays the advised move if the board is still the one the advice was
// computed for. It reports false for stale or empty advice.
func (d *Driver) Apply(a Advice) (game.MoveOutcome, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !a.Decision.Found || a.GameID != d.engine.ID() || a.Moves != d.engine.Moves() {
		return game.MoveOutcome{Died: d.engine.Died()}, false
	}

	board := d.engine.Snapshot().Board()
	before := d.engine.Score()
	out := d.engine.ApplyMove(a.Decision.Direction)

	if d.observer != nil && out.Moved {
		d.observer(Turn{
			GameID:      a.GameID,
			Turn:        a.Moves,
			Board:       board,
			ScoreBefore: before,
			Decision:    a.Decision,
			Outcome:     out,
			After:       d.engine.Snapshot().Board(),
		})
	}
	return out, out.Moved
}

// Step asks the advisor for a move and applies it. It reports false when no
// direction is viable, the game is over or the advice went stale.
func (d *Driver) Step(ctx context.Context) (game.MoveOutcome, bool, error) {
	a, err := d.Advise(ctx)
	if err != nil {
		return game.MoveOutcome{}, false, err
	}
	out, ok := d.Apply(a)
	return out, ok, nil
}

// Run plays advised moves while the auto-play flag is set and the game is
// alive, sleeping interval between moves. The flag is checked before every
// move, so CmdPause stops the loop after the move in progress. Advice made
// stale by a concurrent command is dropped and recomputed. Run returns nil
// when the loop stops on its own and ctx.Err() when cancelled.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	defer d.running.Store(false)

	for d.running.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}

		a, err := d.Advise(ctx)
		if err != nil {
			return err
		}
		if !a.Decision.Found {
			d.stopped()
			return nil
		}

		out, ok := d.Apply(a)
		if !ok {
			if out.Died {
				d.stopped()
				return nil
			}
			continue
		}
		if out.Died {
			d.stopped()
			return nil
		}

		if interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}
	return nil
}

func (d *Driver) stopped() {
	snap := d.Snapshot()
	d.logger.Debug("auto-play stopped", "game", snap.ID, "score", snap.Score, "died", snap.Died)
}

// PlayGame plays the current game to the end with the advisor and returns
// its result.
func (d *Driver) PlayGame(ctx context.Context) (GameResult, error) {
	d.running.Store(true)
	if err := d.Run(ctx, 0); err != nil {
		return GameResult{}, err
	}
	return d.Result(), nil
}

// Result summarizes the current game.
func (d *Driver) Result() GameResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := d.engine.Snapshot()
	return GameResult{
		ID:       snap.ID,
		Score:    snap.Score,
		MaxTile:  snap.MaxTile,
		Moves:    snap.Moves,
		Duration: time.Since(d.started),
	}
}
