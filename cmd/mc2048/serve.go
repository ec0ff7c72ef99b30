package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mc2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game and advisor. Games are recorded
in the server's database (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.mc2048/host_key

Examples:
  mc2048 serve                           # Listen on the configured address
  mc2048 serve --ssh :2222               # Listen on port 2222
  mc2048 serve --host-key ./my_host_key  # Use specific host key
  mc2048 serve --db ./games.db           # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config: :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	logger := newLogger(cfg, "mc2048-ssh")

	srvCfg := tui.DefaultSSHServerConfig()
	srvCfg.Address = cfg.SSH.Address
	srvCfg.HostKeyPath = cfg.SSH.HostKeyPath
	srvCfg.IdleTimeout = cfg.SSH.IdleTimeout
	srvCfg.Interval = cfg.AutoPlay.Interval
	srvCfg.Game = gameSettings(cfg, 0)

	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = flagIdleTimeout
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(srvCfg, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting mc2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
