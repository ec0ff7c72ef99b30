package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/mc2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			Spawn4Prob: 0.1,
		},
		Search: SearchConfig{
			Rollouts: 100,
			Workers:  1,
		},
		AutoPlay: AutoPlayConfig{
			Interval: 50 * time.Millisecond,
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "~/.mc2048/games.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		LogLevel: "info",
	}
}
