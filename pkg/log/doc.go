// Package log provides the structured logging facade used across cmdring.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by the standard library
// slog via a bridge handler that renders entries with our own formatters
// and writes them to one or more outputs.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("device"), log.Int("capacity", 10))
//	l.Info("device ready")
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text|json
// format, stderr|stdout|null output).
//
// # Interop
//
// Libraries that write through the standard library logger (Pebble does)
// can be routed into a Logger with RedirectStdLog.
package log
