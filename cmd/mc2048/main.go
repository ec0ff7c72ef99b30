// mc2048 plays 2048 in the terminal with a Monte-Carlo rollout advisor.
//
// Usage:
//
//	mc2048 menu              - Start with a menu
//	mc2048 play              - Play interactively (advisor on n / g)
//	mc2048 auto              - Watch the advisor play one game
//	mc2048 bench             - Play many advised games and report statistics
//	mc2048 advise --board .. - Ask the advisor about a given board
//	mc2048 scores            - Show recorded games
//	mc2048 serve             - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>     - Set RNG seed for reproducible games
//	--db <path>        - Set database path (default from config: ~/.mc2048/games.db)
//	--config <path>    - Use a specific config file
//	--rollouts <n>     - Override rollouts per direction
//	--workers <n>      - Override directions evaluated in parallel
//	--verbose          - Debug logging
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/config"
	"github.com/vovakirdan/mc2048/internal/search"
	"github.com/vovakirdan/mc2048/internal/storage"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagRollouts int
	flagWorkers  int
	flagVerbose  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mc2048",
	Short: "2048 with a Monte-Carlo move advisor",
	Long: `mc2048 is the 2048 sliding-tile puzzle with an advisor that plays
many random games from the current board and recommends the direction
with the best average score.

Available commands:
  menu     - Start with a menu (play, watch, scores)
  play     - Play in the terminal, ask the advisor for help
  auto     - Watch the advisor play a full game
  bench    - Play many advised games and report statistics
  advise   - Evaluate a board given on the command line
  scores   - Show recorded games
  serve    - Start SSH server for remote play

Examples:
  mc2048 play
  mc2048 auto --delay 100ms
  mc2048 bench --games 20 --trace runs/bench.parquet
  mc2048 advise --board "2,2,0,0/0,4,0,0/0,0,0,0/0,0,0,2"
  mc2048 serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to games database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagRollouts, "rollouts", 0, "Rollouts per direction (0 = from config)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Directions evaluated in parallel, 1-4 (0 = from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, _, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagRollouts > 0 {
		cfg.Search.Rollouts = flagRollouts
	}
	if flagWorkers > 0 {
		cfg.Search.Workers = flagWorkers
	}
	if flagDBPath != "" {
		cfg.Storage.Enabled = true
		cfg.Storage.Path = flagDBPath
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// newLogger returns the stderr logger used by all commands.
func newLogger(cfg config.Config, prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.Level(),
	})
}

// seed returns the --seed value or a time-based one.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// gameSettings derives game settings from the config.
func gameSettings(cfg config.Config, seed int64) autoplay.Settings {
	return autoplay.Settings{
		Seed:       seed,
		Spawn4Prob: cfg.Game.Spawn4Prob,
		Search: search.Config{
			Rollouts: cfg.Search.Rollouts,
			Workers:  cfg.Search.Workers,
		},
	}
}

// openStore opens the games database. Failure is logged and play continues
// without recording.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	if !cfg.Storage.Enabled {
		return nil
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open games database", "path", cfg.Storage.Path, "error", err)
		return nil
	}
	return store
}

// saveResult records a finished game, logging failures.
func saveResult(store *storage.Store, logger *log.Logger, res autoplay.GameResult, mode storage.Mode, seed int64, rollouts int) {
	if store == nil {
		return
	}
	err := store.SaveGame(storage.GameRecord{
		ID:       res.ID,
		Mode:     mode,
		Score:    res.Score,
		MaxTile:  res.MaxTile,
		Moves:    res.Moves,
		Seed:     seed,
		Rollouts: rollouts,
		Duration: res.Duration,
	})
	if err != nil {
		logger.Warn("could not save game", "game", res.ID, "error", err)
	}
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
