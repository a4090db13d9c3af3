package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
)

// Config declares how ApplyConfig builds a logger.
type Config struct {
	Level  string `json:"level"`  // debug|info|warn|error
	Format string `json:"format"` // text|json
	Output string `json:"output"` // stderr|stdout|null
}

// ParseLevel parses a level name (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// ApplyConfig builds a Logger from cfg. A nil cfg yields the defaults.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	var out Output
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = NewConsoleOutput()
	case "stdout":
		out = NewWriterOutput(os.Stdout)
	case "null", "none":
		out = NullOutput{}
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}
	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(out)), nil
}

// stdWriter adapts the standard library logger to a Logger.
type stdWriter struct {
	logger Logger
}

func (w stdWriter) Write(p []byte) (int, error) {
	w.logger.Info(strings.TrimRight(string(p), "\n"), Str("source", "stdlog"))
	return len(p), nil
}

// ToStdWriter returns an io.Writer that logs each write at info level.
func ToStdWriter(logger Logger) io.Writer { return stdWriter{logger: logger} }

// RedirectStdLog routes the standard library logger into logger.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(ToStdWriter(logger))
}
