package config

import (
	"os"
	"strconv"
)

// FromEnv overlays CMDRING_* environment variables onto cfg. Unparseable
// numbers and booleans are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("CMDRING_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CMDRING_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Capacity = n
		}
	}
	if v := os.Getenv("CMDRING_TERMINATOR"); v != "" {
		cfg.Terminator = v
	}
	if v := os.Getenv("CMDRING_MAX_COMMAND_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxCommandBytes = n
		}
	}
	if v := os.Getenv("CMDRING_SPLIT_POLICY"); v != "" {
		cfg.SplitPolicy = v
	}
	if v := os.Getenv("CMDRING_ARCHIVE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Archive.Enabled = b
		}
	}
	if v := os.Getenv("CMDRING_ARCHIVE_FSYNC"); v != "" {
		cfg.Archive.Fsync = v
	}
	if v := os.Getenv("CMDRING_ARCHIVE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Archive.MaxEntries = n
		}
	}
	if v := os.Getenv("CMDRING_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CMDRING_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
