package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mc2048/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a menu",
	Long: `Start in interactive menu mode, the same screen SSH users get.

Use arrow keys or j/k to navigate, Enter to select. Leaving a game or
the scoreboard with Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  mc2048 menu
  mc2048 menu --seed 42
  mc2048 menu --db ./games.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	// The TUI owns the terminal, so logs are kept to warnings.
	logger := newLogger(cfg, "mc2048")
	if !flagVerbose {
		logger.SetLevel(log.WarnLevel)
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	err = tui.RunSession(tui.SessionConfig{
		Game: gameSettings(cfg, flagSeed),
		Options: tui.Options{
			Interval: cfg.AutoPlay.Interval,
			Store:    store,
			Logger:   logger,
			Width:    width,
			Height:   height,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
		os.Exit(1)
	}
}
