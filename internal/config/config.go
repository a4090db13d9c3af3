package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rzbill/cmdring/internal/assembler"
	"github.com/rzbill/cmdring/internal/ringstore"
	pebblestore "github.com/rzbill/cmdring/internal/storage/pebble"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir holds on-disk state (the eviction archive). Empty means
	// DefaultDataDir.
	DataDir string `json:"dataDir"`
	// Capacity is the number of commands the ring retains.
	Capacity int `json:"capacity"`
	// Terminator is the single byte that ends a command. Escapes such as
	// "\n" or "\x00" are accepted.
	Terminator string `json:"terminator"`
	// MaxCommandBytes caps a pending command; zero means unlimited.
	MaxCommandBytes int           `json:"maxCommandBytes"`
	SplitPolicy     string        `json:"splitPolicy"`
	Archive         Archive       `json:"archive"`
	Log             logpkg.Config `json:"log"`
}

// Archive configures the eviction archive.
type Archive struct {
	Enabled    bool   `json:"enabled"`
	Fsync      string `json:"fsync"`
	MaxEntries uint64 `json:"maxEntries"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Capacity:    ringstore.MaxWriteOperations,
		Terminator:  "\n",
		SplitPolicy: assembler.SplitFirst.String(),
		Archive: Archive{
			Fsync:      pebblestore.FsyncModeInterval.String(),
			MaxEntries: 10000,
		},
		Log: logpkg.Config{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON file. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return Config{}, errors.New("yaml config not supported; use JSON")
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// TerminatorByte decodes Terminator.
func (c Config) TerminatorByte() (byte, error) {
	t := c.Terminator
	if len(t) != 1 {
		u, err := strconv.Unquote(`"` + t + `"`)
		if err != nil || len(u) != 1 {
			return 0, fmt.Errorf("terminator %q is not a single byte", c.Terminator)
		}
		t = u
	}
	return t[0], nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if _, err := c.TerminatorByte(); err != nil {
		return err
	}
	if c.MaxCommandBytes < 0 {
		return fmt.Errorf("maxCommandBytes must not be negative, got %d", c.MaxCommandBytes)
	}
	if _, err := assembler.ParseSplitPolicy(c.SplitPolicy); err != nil {
		return err
	}
	if _, err := pebblestore.ParseFsyncMode(c.Archive.Fsync); err != nil {
		return err
	}
	if _, err := logpkg.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
