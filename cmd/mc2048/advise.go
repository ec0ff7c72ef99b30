package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mc2048/internal/grid"
	"github.com/vovakirdan/mc2048/internal/search"
)

var flagBoard string

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Ask the advisor about a board",
	Long: `Evaluate every direction on the given board and print the
recommendation. Rows are separated by '/', cells by ','; empty cells
are written as 0 or '.'.

Examples:
  mc2048 advise --board "2,2,.,./.,4,.,./.,.,.,./.,.,.,2"
  mc2048 advise --board "2,4,2,4/4,2,4,2/2,4,2,4/4,2,4,2"
  mc2048 advise --board "0,0,0,0/0,2,0,0/0,0,0,0/0,0,2,0" --rollouts 1000 --workers 4`,
	Args: cobra.NoArgs,
	Run:  runAdvise,
}

func init() {
	adviseCmd.Flags().StringVarP(&flagBoard, "board", "b", "", "Board to evaluate (required)")
	_ = adviseCmd.MarkFlagRequired("board")
}

func runAdvise(cmd *cobra.Command, args []string) {
	g, err := grid.Parse(flagBoard)
	if err != nil {
		fail("%v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	logger := newLogger(cfg, "advise")

	settings := gameSettings(cfg, seed())
	searchCfg := settings.Search
	searchCfg.Spawn4Prob = settings.Spawn4Prob
	advisor := search.New(searchCfg, rand.New(rand.NewSource(settings.Seed)), logger)

	start := time.Now()
	d, err := advisor.ChooseMove(context.Background(), g)
	if err != nil {
		fail("advisor: %v", err)
	}

	fmt.Print(g.String())
	fmt.Println()
	fmt.Printf("  %-6s  %-10s  %-10s  %s\n", "Dir", "Avg score", "Avg moves", "Rollouts")
	fmt.Printf("  %-6s  %-10s  %-10s  %s\n", "---", "---------", "---------", "--------")
	for _, s := range d.Stats {
		mark := " "
		if d.Found && s.Direction == d.Direction {
			mark = "*"
		}
		if !s.Viable {
			fmt.Printf("%s %-6s  %-10s  %-10s  %d\n", mark, s.Direction, "-", "-", s.Rollouts)
			continue
		}
		fmt.Printf("%s %-6s  %-10.1f  %-10.1f  %d\n", mark, s.Direction, s.AvgScore, s.AvgMoves, s.Rollouts)
	}
	fmt.Println()

	if !d.Found {
		fmt.Println("No move available: the game is over.")
		return
	}
	fmt.Printf("Best move: %s  (%s)\n", d.Direction, time.Since(start).Round(time.Millisecond))
}
