package log

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the severity level of a log message.
type Level int32

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Fields is a map of field names to values.
type Fields map[string]any

// ComponentKey tags entries with the emitting component.
const ComponentKey = "component"

// Entry represents a single log entry handed to a Formatter.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
}

// Logger defines the logging interface passed to cmdring components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger
	// WithComponent is shorthand for With(Component(name)).
	WithComponent(name string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter renders an entry into bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output receives formatted entries.
type Output interface {
	Write(entry *Entry, formatted []byte) error
	Close() error
}

// LoggerOption configures a logger.
type LoggerOption func(*core)

// core is shared by a logger and all children derived via With.
type core struct {
	level     atomic.Int32
	formatter Formatter
	mu        sync.Mutex
	outputs   []Output
}

// BaseLogger implements Logger.
type BaseLogger struct {
	core *core
	sl   *slog.Logger
}

// NewLogger creates a new logger with the given options. Defaults are
// InfoLevel, JSON formatting and a console output.
func NewLogger(options ...LoggerOption) Logger {
	c := &core{formatter: &JSONFormatter{}}
	c.level.Store(int32(InfoLevel))
	for _, option := range options {
		option(c)
	}
	if len(c.outputs) == 0 {
		c.outputs = append(c.outputs, NewConsoleOutput())
	}
	return &BaseLogger{core: c, sl: slog.New(&bridgeHandler{core: c})}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(c *core) { c.level.Store(int32(level)) }
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(c *core) { c.formatter = formatter }
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(c *core) { c.outputs = append(c.outputs, output) }
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if Level(l.core.level.Load()) > level {
		return
	}
	l.sl.LogAttrs(context.Background(), toSlogLevel(level), msg, attrsFromFields(fields)...)
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With returns a child logger carrying the given fields.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &BaseLogger{core: l.core, sl: l.sl.With(attrsToAny(attrsFromFields(fields))...)}
}

// WithComponent tags logs with a component name.
func (l *BaseLogger) WithComponent(name string) Logger {
	return l.With(Component(name))
}

// SetLevel changes the minimum level for this logger and all its children.
func (l *BaseLogger) SetLevel(level Level) { l.core.level.Store(int32(level)) }

// GetLevel returns the current minimum level.
func (l *BaseLogger) GetLevel() Level { return Level(l.core.level.Load()) }

// Close closes every output.
func (l *BaseLogger) Close() error {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	var first error
	for _, out := range l.core.outputs {
		if err := out.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
