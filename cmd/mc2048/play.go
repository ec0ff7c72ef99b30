package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mc2048/internal/autoplay"
	"github.com/vovakirdan/mc2048/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in the terminal",
	Long: `Start an interactive game. The advisor can pick moves for you one at a
time or play on its own until you pause it.

Controls:
  Arrows/WASD/hjkl - Move
  N/Space          - Let the advisor make one move
  G                - Auto-play with the advisor
  P                - Pause auto-play
  R                - Restart
  ?                - Toggle help
  Q/Ctrl+C         - Quit

Examples:
  mc2048 play
  mc2048 play --seed 42
  mc2048 play --rollouts 300 --workers 4`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
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

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	s := seed()
	driver := autoplay.NewGame(gameSettings(cfg, s), logger)

	err = tui.RunGame(driver, tui.Options{
		Interval: cfg.AutoPlay.Interval,
		Seed:     s,
		Rollouts: cfg.Search.Rollouts,
		Store:    store,
		Logger:   logger,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
