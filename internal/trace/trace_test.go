package trace

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/game"
	"github.com/vovakirdan/mc2048/internal/grid"
	"github.com/vovakirdan/mc2048/internal/search"
)

func TestFromTurn(t *testing.T) {
	var board [grid.Size][grid.Size]int
	board[0][0] = 2
	board[3][3] = 128

	turn := autoplay.Turn{
		GameID:      "g1",
		Turn:        7,
		Board:       board,
		ScoreBefore: 40,
		Decision: search.Decision{
			Direction: grid.Down,
			Found:     true,
			Stats: [4]search.DirectionStats{
				{Direction: grid.Up},
				{Direction: grid.Right, Viable: true, Rollouts: 10, AvgScore: 300},
				{Direction: grid.Down, Viable: true, Rollouts: 10, AvgScore: 512.5},
				{Direction: grid.Left},
			},
		},
		Outcome: game.MoveOutcome{Moved: true, ScoreDelta: 8},
	}

	row := FromTurn(turn)
	if row.GameID != "g1" || row.Turn != 7 || row.Direction != int32(grid.Down) {
		t.Errorf("row header = %+v", row)
	}
	if row.ScoreBefore != 40 || row.ScoreDelta != 8 || row.Rollouts != 10 {
		t.Errorf("row scores = %+v", row)
	}
	if len(row.Board) != 16 || row.Board[0] != 2 || row.Board[15] != 128 {
		t.Errorf("row board = %v", row.Board)
	}
	if row.AvgScore[2] != 512.5 || !row.Viable[1] || row.Viable[0] {
		t.Errorf("row stats = %v %v", row.AvgScore, row.Viable)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "traces", "run.parquet")
	w, err := NewWriter(outPath)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	rng := rand.New(rand.NewSource(11))
	adv := search.New(search.Config{Rollouts: 2}, rand.New(rand.NewSource(12)), nil)
	d := autoplay.New(game.New(game.DefaultConfig(), rng, adv), nil)

	var turns []autoplay.Turn
	d.SetObserver(func(tr autoplay.Turn) {
		turns = append(turns, tr)
		w.Observe(tr)
		if len(turns) == 5 {
			d.Dispatch(context.Background(), autoplay.CmdPause)
		}
	})
	d.Dispatch(context.Background(), autoplay.CmdRun)
	if err := d.Run(context.Background(), 0); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if w.Rows() != 5 {
		t.Errorf("Rows() = %d, want 5", w.Rows())
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("output file should not exist before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}

	rows, err := ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if len(rows) != len(turns) {
		t.Fatalf("read %d rows, want %d", len(rows), len(turns))
	}
	for i, row := range rows {
		want := FromTurn(turns[i])
		if row.GameID != want.GameID || row.Turn != int32(i) || row.Direction != want.Direction {
			t.Errorf("row %d = %+v, want %+v", i, row, want)
		}
		for j := range want.Board {
			if row.Board[j] != want.Board[j] {
				t.Errorf("row %d board = %v, want %v", i, row.Board, want.Board)
				break
			}
		}
	}

	if err := w.Write(Row{GameID: "late"}); err == nil {
		t.Error("Write() after Close should fail")
	}
}

func TestNewWriterRequiresPath(t *testing.T) {
	if _, err := NewWriter(""); err == nil {
		t.Error("NewWriter(\"\") should fail")
	}
}
