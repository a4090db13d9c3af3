package config

import (
	"os"
	"path/filepath"
	goruntime "runtime"
)

const appName = "cmdring"

// DefaultDataDir returns the data directory used when neither a flag nor
// Config.DataDir names one: $XDG_DATA_HOME/cmdring when set, otherwise the
// per-user data location of the platform.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), appName)
	}
	switch goruntime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName)
		}
		return filepath.Join(home, "AppData", "Local", appName)
	default:
		return filepath.Join(home, ".local", "share", appName)
	}
}

// DataDirFor resolves the data directory: override (the --data-dir flag)
// wins, then DataDir, then DefaultDataDir.
func (c Config) DataDirFor(override string) string {
	switch {
	case override != "":
		return override
	case c.DataDir != "":
		return c.DataDir
	default:
		return DefaultDataDir()
	}
}

// ArchiveDir returns the Pebble directory of the eviction archive.
func (c Config) ArchiveDir(override string) string {
	return filepath.Join(c.DataDirFor(override), "archive")
}
