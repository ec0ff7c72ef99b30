package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source names where a configuration came from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

// localConfigPath is relative to the working directory.
const localConfigPath = "configs/mc2048.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.mc2048/config.yaml -> ./configs/mc2048.yaml -> embedded default.
// Keys missing from a file keep their default values. A custom path that
// cannot be read or parsed is an error; other candidates are skipped.
func Load(customPath string) (Config, Source, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, SourceCustom, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, SourceCustom, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, SourceCustom, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, SourceUser, cfg.Validate()
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(localConfigPath); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, SourceLocal, cfg.Validate()
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), SourceBuiltin, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, cfg.Validate()
}

// parse decodes data over the built-in defaults.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mc2048", filename)
}

// HomePath returns a path inside ~/.mc2048, or empty if home is unavailable.
func HomePath(name string) string {
	return userConfigPath(name)
}
