// Package search implements the rollout move advisor. For every direction it
// plays many random games from a copy of the board and picks the direction
// with the best average score.
package search

import (
	"context"
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/mc2048/internal/grid"
)

// NoMove is the direction reported when no direction is viable.
const NoMove grid.Direction = -1

// Default advisor settings.
const (
	DefaultRollouts = 100
	DefaultWorkers  = 1
)

// Config controls the advisor.
type Config struct {
	Rollouts   int     // Rollouts per direction
	Workers    int     // Directions evaluated concurrently
	Spawn4Prob float64 // Probability of a 4 when inserting tiles in rollouts
}

// DefaultConfig returns the reference settings: 100 sequential rollouts.
func DefaultConfig() Config {
	return Config{
		Rollouts:   DefaultRollouts,
		Workers:    DefaultWorkers,
		Spawn4Prob: grid.DefaultSpawn4Prob,
	}
}

// DirectionStats aggregates the rollouts of one direction.
type DirectionStats struct {
	Direction grid.Direction
	Viable    bool
	Rollouts  int
	AvgScore  float64
	AvgMoves  float64
}

// Decision is the advisor's recommendation.
type Decision struct {
	Direction grid.Direction // NoMove when Found is false
	Found     bool
	Stats     [4]DirectionStats // Indexed by direction
}

// Best returns the stats of the chosen direction.
func (d Decision) Best() DirectionStats {
	if !d.Found {
		return DirectionStats{Direction: NoMove}
	}
	return d.Stats[d.Direction]
}

// Advisor ranks moves by simulating random continuations.
type Advisor struct {
	cfg    Config
	logger *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an advisor. rng is the advisor's random stream; a nil rng
// uses a fixed seed. A nil logger discards output.
func New(cfg Config, rng *rand.Rand, logger *log.Logger) *Advisor {
	if cfg.Rollouts <= 0 {
		cfg.Rollouts = DefaultRollouts
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Spawn4Prob < 0 || cfg.Spawn4Prob > 1 {
		cfg.Spawn4Prob = grid.DefaultSpawn4Prob
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Advisor{
		cfg:    cfg,
		logger: logger,
		rng:    rng,
	}
}

// Config returns the effective configuration.
func (a *Advisor) Config() Config {
	return a.cfg
}

// seeds draws one seed per direction from the advisor's stream so results
// do not depend on how directions are scheduled.
func (a *Advisor) seeds() [4]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var s [4]int64
	for i := range s {
		s[i] = a.rng.Int63()
	}
	return s
}

// ChooseMove evaluates all four directions on copies of g and returns the
// one with the highest average rollout score. g is never modified.
// Cancelling ctx stops new rollouts and returns ctx.Err().
func (a *Advisor) ChooseMove(ctx context.Context, g *grid.Grid) (Decision, error) {
	root := g.Clone()
	seeds := a.seeds()

	var stats [4]DirectionStats
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.cfg.Workers)

	for i, dir := range grid.Directions {
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[i]))
			s, err := a.evaluate(egCtx, root, dir, rng)
			stats[i] = s
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return Decision{Direction: NoMove}, err
	}

	decision := pick(stats)
	best := decision.Best()
	a.logger.Debug("rollout search",
		"direction", decision.Direction,
		"found", decision.Found,
		"avg_score", best.AvgScore,
		"avg_moves", best.AvgMoves,
	)

	return decision, nil
}

// evaluate runs the rollouts of one direction. A failed rollout means the
// first move is illegal, which holds for every rollout, so the direction is
// dropped at once.
func (a *Advisor) evaluate(ctx context.Context, g *grid.Grid, dir grid.Direction, rng *rand.Rand) (DirectionStats, error) {
	stats := DirectionStats{Direction: dir}
	totalScore, totalMoves := 0, 0

	for range a.cfg.Rollouts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		res := Rollout(g, dir, rng, a.cfg.Spawn4Prob)
		if res.Score == FailedRollout {
			return DirectionStats{Direction: dir}, nil
		}

		totalScore += res.Score
		totalMoves += res.Moves
		stats.Rollouts++
	}

	stats.Viable = stats.Rollouts > 0
	if stats.Viable {
		stats.AvgScore = float64(totalScore) / float64(stats.Rollouts)
		stats.AvgMoves = float64(totalMoves) / float64(stats.Rollouts)
	}
	return stats, nil
}

// pick selects the viable direction with the strictly highest average
// score; earlier directions win ties.
func pick(stats [4]DirectionStats) Decision {
	d := Decision{Direction: NoMove, Stats: stats}
	for _, s := range stats {
		if !s.Viable {
			continue
		}
		if !d.Found || s.AvgScore > d.Stats[d.Direction].AvgScore {
			d.Direction = s.Direction
			d.Found = true
		}
	}
	return d
}
