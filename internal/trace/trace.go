// Package trace records advisor decisions as Parquet rows for offline
// analysis.
package trace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/grid"
)

// SchemaVersion is stored in the file metadata under "schema".
const SchemaVersion = "decision_v1"

// Row is one advised move.
//
// Board holds the 16 cell values row-major before the move, 0 for empty.
// AvgScore and Viable are indexed by direction: 0=Up, 1=Right, 2=Down, 3=Left.
type Row struct {
	GameID      string    `parquet:"game_id,dict"`
	Turn        int32     `parquet:"turn"`
	Board       []int32   `parquet:"board"`
	Direction   int32     `parquet:"direction"`
	ScoreBefore int32     `parquet:"score_before"`
	ScoreDelta  int32     `parquet:"score_delta"`
	Rollouts    int32     `parquet:"rollouts"`
	AvgScore    []float32 `parquet:"avg_score"`
	Viable      []bool    `parquet:"viable"`
}

// FromTurn converts an applied advised move into a row.
func FromTurn(t autoplay.Turn) Row {
	row := Row{
		GameID:      t.GameID,
		Turn:        int32(t.Turn),
		Board:       make([]int32, 0, grid.Size*grid.Size),
		Direction:   int32(t.Decision.Direction),
		ScoreBefore: int32(t.ScoreBefore),
		ScoreDelta:  int32(t.Outcome.ScoreDelta),
		Rollouts:    int32(t.Decision.Best().Rollouts),
		AvgScore:    make([]float32, len(t.Decision.Stats)),
		Viable:      make([]bool, len(t.Decision.Stats)),
	}
	for _, cells := range t.Board {
		for _, v := range cells {
			row.Board = append(row.Board, int32(v))
		}
	}
	for i, s := range t.Decision.Stats {
		row.AvgScore[i] = float32(s.AvgScore)
		row.Viable[i] = s.Viable
	}
	return row
}

// Writer streams rows into a Parquet file. The file appears at its final
// path only after Close succeeds. Writer is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	outPath string
	tmpPath string
	file    *os.File
	writer  *parquet.GenericWriter[Row]
	rows    int
	err     error // first error from Observe
}

// NewWriter creates a writer for outPath, creating parent directories.
func NewWriter(outPath string) (*Writer, error) {
	if outPath == "" {
		return nil, errors.New("trace: output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("trace: create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("trace: open tmp parquet: %w", err)
	}

	w := parquet.NewGenericWriter[Row](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", SchemaVersion)

	return &Writer{
		outPath: outPath,
		tmpPath: tmpPath,
		file:    f,
		writer:  w,
	}, nil
}

// Write appends rows.
func (w *Writer) Write(rows ...Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.write(rows)
}

func (w *Writer) write(rows []Row) error {
	if w.writer == nil {
		return errors.New("trace: writer is closed")
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := w.writer.Write(rows); err != nil {
		return fmt.Errorf("trace: write rows: %w", err)
	}
	w.rows += len(rows)
	return nil
}

// Observe records t. Errors are kept and reported by Close.
func (w *Writer) Observe(t autoplay.Turn) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return
	}
	w.err = w.write([]Row{FromTurn(t)})
}

// Rows returns how many rows were written.
func (w *Writer) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Close flushes the file and moves it to its final path. On error the
// temporary file is removed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer == nil {
		return nil
	}

	closeErr := w.writer.Close()
	w.writer = nil
	_ = w.file.Sync()
	fileErr := w.file.Close()

	err := errors.Join(w.err, closeErr, fileErr)
	if err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("trace: close parquet: %w", err)
	}

	if err := os.Rename(w.tmpPath, w.outPath); err != nil {
		return fmt.Errorf("trace: rename parquet: %w", err)
	}
	return nil
}

// ReadFile loads every row of a trace file.
func ReadFile(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("trace: read %s: %w", path, err)
	}
	return rows, nil
}
