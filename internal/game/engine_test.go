package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/mc2048/internal/grid"
	"github.com/vovakirdan/mc2048/internal/search"
)

func newTestEngine(seed int64) *Engine {
	return New(DefaultConfig(), rand.New(rand.NewSource(seed)), nil)
}

func TestNewGameHasTwoTiles(t *testing.T) {
	e := newTestEngine(1)
	snap := e.Snapshot()

	if len(snap.Tiles) != 2 {
		t.Fatalf("new game has %d tiles, want 2", len(snap.Tiles))
	}
	for _, tile := range snap.Tiles {
		if !tile.IsNew {
			t.Errorf("initial tile %+v should be marked new", tile)
		}
		if tile.Value != 2 && tile.Value != 4 {
			t.Errorf("initial tile value = %d, want 2 or 4", tile.Value)
		}
	}
	if snap.Score != 0 || snap.Died || snap.Won || snap.State != StateActive {
		t.Errorf("new game snapshot = %+v, want fresh active game", snap)
	}
	if snap.ID == "" {
		t.Error("new game has no ID")
	}
}

func TestDeterministicStart(t *testing.T) {
	a := newTestEngine(12345)
	b := newTestEngine(12345)

	if a.Snapshot().Board() != b.Snapshot().Board() {
		t.Errorf("same seed should produce same initial board:\n%v\nvs\n%v", a.Grid(), b.Grid())
	}
}

func TestApplyMoveAddsScoreAndTile(t *testing.T) {
	e := newTestEngine(5)
	e.grid = grid.FromValues([grid.Size][grid.Size]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	out := e.ApplyMove(grid.Left)
	if !out.Moved || out.ScoreDelta != 4 || out.Died {
		t.Fatalf("ApplyMove(Left) = %+v, want moved with delta 4", out)
	}
	if e.Score() != 4 || e.Moves() != 1 {
		t.Errorf("score = %d moves = %d, want 4 and 1", e.Score(), e.Moves())
	}

	snap := e.Snapshot()
	if len(snap.Tiles) != 2 {
		t.Fatalf("tiles after move = %d, want merged tile plus one new tile", len(snap.Tiles))
	}

	newCount := 0
	for _, tile := range snap.Tiles {
		if tile.IsNew {
			newCount++
		}
		if tile.Row == 0 && tile.Col == 0 && (tile.Value != 4 || !tile.Merged) {
			t.Errorf("(0,0) = %+v, want merged 4", tile)
		}
	}
	if newCount != 1 {
		t.Errorf("new tiles after move = %d, want 1", newCount)
	}
	if snap.LastDelta != 4 {
		t.Errorf("LastDelta = %d, want 4", snap.LastDelta)
	}
}

func TestNoOpMoveChangesNothing(t *testing.T) {
	e := newTestEngine(5)
	e.grid = grid.FromValues([grid.Size][grid.Size]int{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	before := e.Snapshot()

	out := e.ApplyMove(grid.Left)
	if out.Moved || out.ScoreDelta != 0 || out.Died {
		t.Errorf("no-op ApplyMove = %+v, want zero outcome", out)
	}

	after := e.Snapshot()
	if after.Board() != before.Board() || after.Score != before.Score || after.Moves != before.Moves {
		t.Error("no-op move changed engine state")
	}
}

func TestInvalidDirectionIgnored(t *testing.T) {
	e := newTestEngine(5)
	before := e.Snapshot().Board()

	if out := e.ApplyMove(grid.Direction(9)); out.Moved {
		t.Errorf("ApplyMove with invalid direction = %+v", out)
	}
	if e.Snapshot().Board() != before {
		t.Error("invalid direction changed the board")
	}
}

func TestDeathAndRestart(t *testing.T) {
	e := newTestEngine(8)
	// Merging the 16s frees (3,0); its neighbours are 8 and 32, so the
	// inserted 2 or 4 leaves no moves.
	e.grid = grid.FromValues([grid.Size][grid.Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{8, 4, 2, 4},
		{32, 64, 16, 16},
	})

	out := e.ApplyMove(grid.Right)
	if !out.Moved || out.ScoreDelta != 32 {
		t.Fatalf("ApplyMove(Right) = %+v, want moved with delta 32", out)
	}
	if !e.Grid().Dead() {
		t.Fatalf("board should be dead after the last merge:\n%v", e.Grid())
	}

	if !out.Died || !e.Died() || e.State() != StateDead {
		t.Fatalf("engine should be dead, outcome %+v state %v", out, e.State())
	}

	score := e.Score()
	for _, dir := range grid.Directions {
		if o := e.ApplyMove(dir); o.Moved || !o.Died {
			t.Errorf("ApplyMove(%v) on dead game = %+v", dir, o)
		}
	}
	if e.Score() != score {
		t.Error("score changed after death")
	}

	oldID := e.ID()
	e.Restart()
	if e.Died() || e.Score() != 0 || e.Moves() != 0 || e.State() != StateActive {
		t.Errorf("restart did not reset state: score=%d moves=%d died=%v", e.Score(), e.Moves(), e.Died())
	}
	if e.ID() == oldID {
		t.Error("restart kept the old game ID")
	}
	if n := len(e.Snapshot().Tiles); n != 2 {
		t.Errorf("tiles after restart = %d, want 2", n)
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	e := newTestEngine(99)
	rng := rand.New(rand.NewSource(100))
	last := 0

	for !e.Died() {
		out := e.ApplyMove(grid.Directions[rng.Intn(4)])
		if e.Score() < last {
			t.Fatalf("score went from %d to %d", last, e.Score())
		}
		if out.Moved && e.Score() != last+out.ScoreDelta {
			t.Fatalf("score %d != %d + delta %d", e.Score(), last, out.ScoreDelta)
		}
		last = e.Score()
	}

	if !e.Grid().Dead() {
		t.Error("engine died on a board with moves left")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	e := newTestEngine(3)
	snap := e.Snapshot()
	snap.Tiles[0].Value = 1024

	if e.Grid().MaxTile() == 1024 {
		t.Error("mutating a snapshot changed the engine")
	}
}

func TestAdvisorRequests(t *testing.T) {
	e := newTestEngine(4)
	if _, _, err := e.RequestAdvisedMove(context.Background()); !errors.Is(err, ErrNoAdvisor) {
		t.Fatalf("RequestAdvisedMove() error = %v, want ErrNoAdvisor", err)
	}

	adv := search.New(search.Config{Rollouts: 10}, rand.New(rand.NewSource(4)), nil)
	e = New(DefaultConfig(), rand.New(rand.NewSource(4)), adv)
	e.grid = grid.FromValues([grid.Size][grid.Size]int{
		{0, 0, 0, 0},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
	})
	before := e.Snapshot().Board()

	dir, ok, err := e.RequestAdvisedMove(context.Background())
	if err != nil {
		t.Fatalf("RequestAdvisedMove() failed: %v", err)
	}
	if !ok || dir != grid.Up {
		t.Errorf("RequestAdvisedMove() = %v (ok=%v), want Up", dir, ok)
	}
	if e.Snapshot().Board() != before {
		t.Error("advisor request changed the board")
	}
}

func TestStateString(t *testing.T) {
	if StateActive.String() != "active" || StateDead.String() != "dead" {
		t.Errorf("unexpected state names %q %q", StateActive, StateDead)
	}
}

func TestLoadBoard(t *testing.T) {
	e := newTestEngine(6)
	e.ApplyMove(grid.Left)
	e.ApplyMove(grid.Up)
	oldID := e.ID()

	locked := grid.FromValues([grid.Size][grid.Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	e.Load(locked)

	if e.ID() == oldID || e.Score() != 0 || e.Moves() != 0 {
		t.Errorf("Load() kept old game state: id=%s score=%d moves=%d", e.ID(), e.Score(), e.Moves())
	}
	if !e.Died() {
		t.Error("loading a locked board should end the game")
	}
	if e.Grid().Values() != locked.Values() {
		t.Error("Load() did not install the board")
	}

	locked.RemoveTile(grid.Position{Row: 0, Col: 0})
	if e.Grid().Values() == locked.Values() {
		t.Error("engine shares the loaded grid with the caller")
	}
}
