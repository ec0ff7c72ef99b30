package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/grid"
	"github.com/vovakirdan/mc2048/internal/storage"
)

var (
	flagDelay time.Duration
	flagQuiet bool
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Watch the advisor play one game",
	Long: `Let the advisor play a full game, printing the board after every move.
Ctrl+C stops the game early; the partial game is not recorded.

Examples:
  mc2048 auto
  mc2048 auto --delay 200ms
  mc2048 auto --quiet --rollouts 500`,
	Args: cobra.NoArgs,
	Run:  runAuto,
}

func init() {
	autoCmd.Flags().DurationVar(&flagDelay, "delay", -1, "Pause between moves (default from config)")
	autoCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print the final result")
}

func runAuto(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	logger := newLogger(cfg, "mc2048")

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	delay := cfg.AutoPlay.Interval
	if flagDelay >= 0 {
		delay = flagDelay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := seed()
	driver := autoplay.NewGame(gameSettings(cfg, s), logger)
	if !flagQuiet {
		snap := driver.Snapshot()
		printBoard(snap.Board(), snap.Moves, snap.Score, "")
		driver.SetObserver(func(t autoplay.Turn) {
			score := t.ScoreBefore + t.Outcome.ScoreDelta
			printBoard(t.After, t.Turn+1, score,
				fmt.Sprintf("%s +%d", t.Decision.Direction, t.Outcome.ScoreDelta))
		})
	}

	if _, err := driver.Dispatch(ctx, autoplay.CmdRun); err != nil {
		fail("%v", err)
	}
	if err := driver.Run(ctx, delay); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			return
		}
		fail("advisor: %v", err)
	}

	res := driver.Result()
	fmt.Printf("Game over. Score: %d  Max tile: %d  Moves: %d  (%s)\n",
		res.Score, res.MaxTile, res.Moves, res.Duration.Round(time.Millisecond))
	saveResult(store, logger, res, storage.ModeAuto, s, cfg.Search.Rollouts)
}

// printBoard writes a board and its score line to stdout.
func printBoard(board [grid.Size][grid.Size]int, moves, score int, move string) {
	fmt.Printf("Move %d  Score: %d  %s\n", moves, score, move)
	fmt.Print(grid.FromValues(board).String())
	fmt.Println()
}
