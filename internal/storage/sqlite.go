// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Mode records who played a game.
type Mode string

const (
	ModeManual Mode = "manual" // Human at the keyboard, advisor on request
	ModeAuto   Mode = "auto"   // Every move chosen by the advisor
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeManual, ModeAuto:
		return Mode(s), nil
	}
	return "", fmt.Errorf("storage: unknown mode %q (want manual or auto)", s)
}

// Store manages the SQLite database connection for game results.
type Store struct {
	db *sql.DB
}

// GameRecord is one finished game.
type GameRecord struct {
	ID        string
	Mode      Mode
	Score     int
	MaxTile   int
	Moves     int
	Seed      int64
	Rollouts  int // Advisor rollouts per direction, 0 if unused
	Duration  time.Duration
	CreatedAt time.Time
}

// Stats aggregates all games of one mode.
type Stats struct {
	Mode       Mode
	GamesCount int
	HighScore  int
	AvgScore   float64
	BestTile   int
	TotalMoves int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("storage: empty database path")
	}

	// Expand ~ to home directory
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			rollouts INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_top ON games(mode, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame records a finished game. Saving the same ID twice is an error.
func (s *Store) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		return errors.New("storage: cannot save game without ID")
	}
	if _, err := ParseMode(string(rec.Mode)); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT INTO games (id, mode, score, max_tile, moves, seed, rollouts, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Mode),
		rec.Score,
		rec.MaxTile,
		rec.Moves,
		rec.Seed,
		rec.Rollouts,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// TopGames retrieves the best N games of a mode, highest score first.
func (s *Store) TopGames(mode Mode, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, score, max_tile, moves, seed, rollouts, duration_ms, created_at
		 FROM games
		 WHERE mode = ?
		 ORDER BY score DESC, max_tile DESC
		 LIMIT ?`,
		string(mode), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var (
			r          GameRecord
			mode       string
			durationMS int64
			createdAt  any
		)
		if err := rows.Scan(&r.ID, &mode, &r.Score, &r.MaxTile, &r.Moves, &r.Seed, &r.Rollouts, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Mode = Mode(mode)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// HighScore returns the highest score of a mode, 0 if none were recorded.
func (s *Store) HighScore(mode Mode) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM games WHERE mode = ?",
		string(mode),
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Stats retrieves aggregated statistics for a mode.
func (s *Store) Stats(mode Mode) (*Stats, error) {
	stats := &Stats{Mode: mode}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(MAX(max_tile), 0), COALESCE(SUM(moves), 0), MAX(created_at)
		 FROM games WHERE mode = ?`,
		string(mode),
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.BestTile, &stats.TotalMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// ClearGames deletes every game of a mode.
func (s *Store) ClearGames(mode Mode) error {
	_, err := s.db.Exec("DELETE FROM games WHERE mode = ?", string(mode))
	if err != nil {
		return fmt.Errorf("storage: cannot clear games: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
