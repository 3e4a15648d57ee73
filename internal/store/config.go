package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

type Config struct {
	// Dir is the data directory. Empty means <config dir>/data.
	Dir string `toml:"dir,omitempty" json:"dir,omitempty"`

	// Backend is one of: sqlite|json|memory
	Backend string `toml:"backend" json:"backend"`

	// Key is the storage key holding the item collection.
	Key string `toml:"key" json:"key"`

	LogLevel string `toml:"log_level" json:"logLevel"`

	// TrimEdits trims surrounding whitespace from edited text before it is saved.
	TrimEdits bool `toml:"trim_edits" json:"trimEdits"`

	TUI TUIConfig `toml:"tui" json:"tui"`
}

type TUIConfig struct {
	// Theme is one of: auto|light|dark
	Theme string `toml:"theme" json:"theme"`
}

func DefaultConfig() Config {
	return Config{
		Backend:   BackendSQLite,
		Key:       DefaultKey,
		LogLevel:  "info",
		TrimEdits: true,
		TUI:       TUIConfig{Theme: "auto"},
	}
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.todo).
	if v := strings.TrimSpace(os.Getenv("TODO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todo"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads config.toml on top of the defaults. A missing file is not an error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	if err := ValidateKey(cfg.Key); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays TODO_DIR and TODO_BACKEND.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("TODO_DIR")); v != "" {
		c.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_BACKEND")); v != "" {
		c.Backend = v
	}
}

// DataDir resolves the directory holding the state (and the TUI log).
func (c Config) DataDir() (string, error) {
	if d := strings.TrimSpace(c.Dir); d != "" {
		return d, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// SaveConfig writes cfg to config.toml atomically.
func SaveConfig(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.toml.*.tmp", path, buf.Bytes(), 0o600)
}
