// Package config provides YAML-based configuration loading for mc2048.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config contains every tunable of the game, the advisor and the outer
// adapters.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Search   SearchConfig   `yaml:"search"`
	AutoPlay AutoPlayConfig `yaml:"autoplay"`
	Storage  StorageConfig  `yaml:"storage"`
	SSH      SSHConfig      `yaml:"ssh"`
	LogLevel string         `yaml:"log_level"`
}

// GameConfig defines board rules.
type GameConfig struct {
	Spawn4Prob float64 `yaml:"spawn4_prob"`
}

// SearchConfig defines the rollout advisor.
type SearchConfig struct {
	Rollouts int `yaml:"rollouts"`
	Workers  int `yaml:"workers"`
}

// AutoPlayConfig defines the pace of advisor-driven play.
type AutoPlayConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// StorageConfig defines where finished games are recorded.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SSHConfig defines the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate reports every invalid setting, joined into one error.
func (c Config) Validate() error {
	var errs []error

	if c.Game.Spawn4Prob < 0 || c.Game.Spawn4Prob > 1 {
		errs = append(errs, fmt.Errorf("game.spawn4_prob must be in [0,1], got %v", c.Game.Spawn4Prob))
	}
	if c.Search.Rollouts <= 0 {
		errs = append(errs, fmt.Errorf("search.rollouts must be positive, got %d", c.Search.Rollouts))
	}
	if c.Search.Workers <= 0 || c.Search.Workers > 4 {
		errs = append(errs, fmt.Errorf("search.workers must be in [1,4], got %d", c.Search.Workers))
	}
	if c.AutoPlay.Interval < 0 {
		errs = append(errs, fmt.Errorf("autoplay.interval must not be negative, got %v", c.AutoPlay.Interval))
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path is required when storage is enabled"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
