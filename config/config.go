// Package config holds user preferences loaded from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"imepaste/history"
)

const (
	DefaultSettleDelay = 250 * time.Millisecond
	MaxSettleDelay     = 2 * time.Second
)

// Config holds all application configuration.
type Config struct {
	PreserveHistory bool          `yaml:"preserve_history"`
	MaxHistoryItems int           `yaml:"max_history_items"`
	ShowCharCount   bool          `yaml:"show_char_count"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	NativePaste     bool          `yaml:"native_paste"`
	TargetApp       string        `yaml:"target_app"` // activated before pasting; empty = frontmost app
	LogLevel        string        `yaml:"log_level"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "imepaste")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "imepaste")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DataDir is where persisted state (storage.json) lives.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "imepaste")
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "imepaste")
	}
	return filepath.Join(home, ".local", "share", "imepaste")
}

// StoragePath returns the key-value file used for history.
func StoragePath() string {
	return filepath.Join(DataDir(), "storage.json")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		PreserveHistory: true,
		MaxHistoryItems: history.DefaultMax,
		ShowCharCount:   true,
		SettleDelay:     DefaultSettleDelay,
		NativePaste:     false,
		LogLevel:        "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.MaxHistoryItems < history.MinMax || c.MaxHistoryItems > history.MaxMax {
		return fmt.Errorf("max_history_items must be between %d and %d, got %d",
			history.MinMax, history.MaxMax, c.MaxHistoryItems)
	}

	if c.SettleDelay < 0 || c.SettleDelay > MaxSettleDelay {
		return fmt.Errorf("settle_delay must be between 0 and %s, got %s", MaxSettleDelay, c.SettleDelay)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// Save writes c to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
