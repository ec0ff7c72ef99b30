package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/storage"
	"github.com/vovakirdan/mc2048/internal/trace"
)

var (
	flagGames    int
	flagParallel int
	flagTrace    string
	flagNoSave   bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play many advised games and report statistics",
	Long: `Play a batch of games with the advisor choosing every move. Game i uses
seed+i, so a batch is reproducible. Every applied decision can be
written to a Parquet trace for offline analysis.

Examples:
  mc2048 bench --games 20
  mc2048 bench --games 100 --parallel 8 --rollouts 50
  mc2048 bench --games 10 --seed 7 --trace runs/seed7.parquet`,
	Args: cobra.NoArgs,
	Run:  runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&flagGames, "games", "n", 10, "Number of games to play")
	benchCmd.Flags().IntVarP(&flagParallel, "parallel", "p", 1, "Games played concurrently")
	benchCmd.Flags().StringVar(&flagTrace, "trace", "", "Write every decision to this Parquet file")
	benchCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record games in the database")
}

func runBench(cmd *cobra.Command, args []string) {
	if flagGames < 1 {
		fail("--games must be at least 1")
	}
	if flagParallel < 1 {
		fail("--parallel must be at least 1")
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	logger := newLogger(cfg, "bench")

	var store *storage.Store
	if !flagNoSave {
		store = openStore(cfg, logger)
	}
	if store != nil {
		defer store.Close()
	}

	var tw *trace.Writer
	if flagTrace != "" {
		tw, err = trace.NewWriter(flagTrace)
		if err != nil {
			fail("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := seed()
	results := make([]autoplay.GameResult, flagGames)
	var printMu sync.Mutex
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(flagParallel)
	for i := range flagGames {
		g.Go(func() error {
			gameSeed := base + int64(i)
			driver := autoplay.NewGame(gameSettings(cfg, gameSeed), logger)
			if tw != nil {
				driver.SetObserver(tw.Observe)
			}

			res, err := driver.PlayGame(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			saveResult(store, logger, res, storage.ModeAuto, gameSeed, cfg.Search.Rollouts)

			printMu.Lock()
			fmt.Printf("game %3d  seed %-20d score %7d  max %5d  moves %5d  %s\n",
				i+1, gameSeed, res.Score, res.MaxTile, res.Moves, res.Duration.Round(time.Millisecond))
			printMu.Unlock()
			return nil
		})
	}

	runErr := g.Wait()
	if tw != nil {
		if err := tw.Close(); err != nil {
			logger.Error("could not write trace", "path", flagTrace, "error", err)
		} else {
			logger.Info("trace written", "path", flagTrace, "rows", tw.Rows())
		}
	}
	if runErr != nil {
		fail("bench: %v", runErr)
	}

	printSummary(results, time.Since(start))
}

// median returns the median of sorted, averaging the middle pair for an
// even count.
func median(sorted []int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// printSummary prints aggregate statistics and the max-tile distribution.
func printSummary(results []autoplay.GameResult, elapsed time.Duration) {
	scores := make([]int, len(results))
	tiles := map[int]int{}
	total := 0
	for i, r := range results {
		scores[i] = r.Score
		tiles[r.MaxTile]++
		total += r.Score
	}
	slices.Sort(scores)

	fmt.Println()
	fmt.Printf("Games:   %d in %s\n", len(results), elapsed.Round(time.Millisecond))
	fmt.Printf("Score:   avg %.1f  median %.1f  min %d  max %d\n",
		float64(total)/float64(len(results)), median(scores), scores[0], scores[len(scores)-1])

	keys := make([]int, 0, len(tiles))
	for k := range tiles {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fmt.Println("Max tile:")
	for _, k := range slices.Backward(keys) {
		fmt.Printf("  %5d  %3d  (%.0f%%)\n", k, tiles[k], 100*float64(tiles[k])/float64(len(results)))
	}
}
