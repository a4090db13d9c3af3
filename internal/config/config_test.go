package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Capacity != 10 {
		t.Fatalf("capacity default %d", cfg.Capacity)
	}
	if b, err := cfg.TerminatorByte(); err != nil || b != '\n' {
		t.Fatalf("terminator default %q %v", b, err)
	}
	if cfg.SplitPolicy != "first" {
		t.Fatalf("split policy default %q", cfg.SplitPolicy)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cmdring.json")
	data := []byte(`{"capacity":4,"terminator":";","splitPolicy":"every","archive":{"enabled":true,"fsync":"always"},"log":{"level":"debug"}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capacity != 4 || cfg.SplitPolicy != "every" || !cfg.Archive.Enabled || cfg.Archive.Fsync != "always" {
		t.Fatalf("loaded %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Fatalf("log section %+v", cfg.Log)
	}
	if cfg.Archive.MaxEntries != 10000 {
		t.Fatalf("unset fields keep defaults, got %d", cfg.Archive.MaxEntries)
	}
}

func TestLoadRejectsYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cmdring.yaml")
	if err := os.WriteFile(file, []byte("capacity: 4\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil || !strings.Contains(err.Error(), "yaml") {
		t.Fatalf("expected yaml rejection, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("CMDRING_CAPACITY", "32")
	t.Setenv("CMDRING_TERMINATOR", `\x00`)
	t.Setenv("CMDRING_MAX_COMMAND_BYTES", "4096")
	t.Setenv("CMDRING_ARCHIVE_ENABLED", "true")
	t.Setenv("CMDRING_LOG_FORMAT", "json")
	t.Setenv("CMDRING_SPLIT_POLICY", "every")
	FromEnv(&cfg)
	if cfg.Capacity != 32 || cfg.MaxCommandBytes != 4096 || !cfg.Archive.Enabled {
		t.Fatalf("env overlay %+v", cfg)
	}
	if b, err := cfg.TerminatorByte(); err != nil || b != 0 {
		t.Fatalf("escaped terminator %q %v", b, err)
	}
	if cfg.Log.Format != "json" || cfg.SplitPolicy != "every" {
		t.Fatalf("env overlay %+v", cfg)
	}
	t.Setenv("CMDRING_CAPACITY", "lots")
	FromEnv(&cfg)
	if cfg.Capacity != 32 {
		t.Fatalf("bad number should be ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"long terminator", func(c *Config) { c.Terminator = "ab" }},
		{"empty terminator", func(c *Config) { c.Terminator = "" }},
		{"negative limit", func(c *Config) { c.MaxCommandBytes = -1 }},
		{"split policy", func(c *Config) { c.SplitPolicy = "sometimes" }},
		{"fsync", func(c *Config) { c.Archive.Fsync = "weekly" }},
		{"log level", func(c *Config) { c.Log.Level = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
