package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mc2048/internal/platform/tui"
	"github.com/vovakirdan/mc2048/internal/storage"
)

var (
	flagMode        string
	flagLimit       int
	flagInteractive bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded games",
	Long: `Display the best recorded games of one mode. Games where the advisor
made at least one move are recorded as "auto", all others as "manual".

Examples:
  mc2048 scores
  mc2048 scores --mode auto --limit 20
  mc2048 scores -i
  mc2048 scores --mode manual --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVarP(&flagMode, "mode", "m", string(storage.ModeManual), "Game mode: manual or auto")
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "l", 10, "Number of games to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table view")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all games of the mode")
}

func runScores(cmd *cobra.Command, args []string) {
	mode, err := storage.ParseMode(flagMode)
	if err != nil {
		fail("%v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening games database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearGames(mode); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared %s games.\n", mode)
		return
	}

	if flagInteractive {
		width, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width, height = 80, 24
		}
		if err := tui.RunScoreboard(store, mode, width, height); err != nil {
			fail("%v", err)
		}
		return
	}

	games, err := store.TopGames(mode, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", mode)
	fmt.Println()

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mc2048 play' or 'mc2048 auto' to record the first game!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "Rank", "Score", "Max", "Moves", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "----", "-----", "---", "-----", "----")
	for i, g := range games {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %s\n",
			i+1, g.Score, g.MaxTile, g.Moves, g.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(mode)
	if err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Avg: %.1f  Best tile: %d  Total moves: %d\n",
			stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestTile, stats.TotalMoves)
	}
}
