package search

import "github.com/vovakirdan/mc2048/internal/grid"

// FailedRollout is the score reported when the candidate move is illegal.
const FailedRollout = -1

// RolloutResult is the outcome of one simulated game.
type RolloutResult struct {
	Score int // Total merge score, or FailedRollout
	Moves int // Successful moves including the candidate move
}

// Rollout plays one random game on a private clone of g. The first move is
// dir; every later move is a uniformly random direction. After each
// successful move a random tile is inserted. The game runs until no
// direction is available.
func Rollout(g *grid.Grid, dir grid.Direction, rng grid.Rand, spawn4 float64) RolloutResult {
	sim := g.Clone()

	res, ok := sim.Move(dir)
	if !ok || !res.Moved {
		return RolloutResult{Score: FailedRollout}
	}

	out := RolloutResult{Score: res.Score, Moves: 1}
	sim.AddRandomTile(rng, spawn4)

	for !sim.Dead() {
		next := grid.Directions[rng.Intn(len(grid.Directions))]
		res, ok := sim.Move(next)
		if !ok {
			continue
		}
		out.Score += res.Score
		out.Moves++
		sim.AddRandomTile(rng, spawn4)
	}

	return out
}
