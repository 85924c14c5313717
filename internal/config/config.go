// Package config holds the construction-time configuration for lineage.
//
// A Config is loaded once (from YAML or defaults) and passed explicitly to
// the components that need it. There is no global configuration lookup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the single configuration struct consumed at construction time.
type Config struct {
	// Database is the SQLite file path backing the closure store.
	Database string `yaml:"database"`

	// MaxDepth caps ancestor-chain depth. 0 means unbounded.
	MaxDepth int `yaml:"max_depth"`

	// Notifications toggles change-notification emission process-wide.
	Notifications bool `yaml:"notifications"`

	// Keys maps node kinds to the external record field holding their id.
	Keys map[string]string `yaml:"keys"`

	// StrictKeys rejects kinds absent from Keys instead of defaulting to "id".
	StrictKeys bool `yaml:"strict_keys"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database:      "lineage.db",
		Notifications: true,
	}
}

// Load reads a YAML config file. Unset fields keep their Default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}
