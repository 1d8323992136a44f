// Package logging provides the leveled, field-aware logger used across logid.
// It is backed by log/slog's text handler so every line is key=value and
// greppable next to the tool's JSON output on stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Logger is the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithField returns a new logger with the given field added.
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with the given fields added.
	WithFields(fields map[string]interface{}) Logger

	// SetLevel sets the minimum log level.
	SetLevel(level Level)

	// SetOutput sets the output writer.
	SetOutput(w io.Writer)
}

var (
	defaultLogger Logger
	defaultMu     sync.RWMutex
)

func init() {
	defaultLogger = New()
}

// Default returns the default logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

func Debug(msg string, args ...interface{}) { Default().Debug(msg, args...) }
func Info(msg string, args ...interface{})  { Default().Info(msg, args...) }
func Warn(msg string, args ...interface{})  { Default().Warn(msg, args...) }
func Error(msg string, args ...interface{}) { Default().Error(msg, args...) }

// EnabledFromEnv interprets an ENABLE_LOGGING value. true, on, 1 and yes
// (any case) enable informational logging.
func EnabledFromEnv(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// LevelFor picks the minimum level for the CLI. Without ENABLE_LOGGING only
// errors are written; verbose always wins.
func LevelFor(enabled, verbose bool) Level {
	switch {
	case verbose:
		return LevelDebug
	case enabled:
		return LevelInfo
	default:
		return LevelError
	}
}

// sink is the writer shared by a logger and everything derived from it,
// so SetOutput on any of them redirects all of them.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *sink) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// slogLogger implements Logger on top of log/slog.
type slogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	out    *sink
}

// New creates a logger writing to stderr at Info level.
func New() Logger {
	return NewWithOutput(os.Stderr)
}

// NewWithOutput creates a logger with the specified output.
func NewWithOutput(w io.Writer) Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	out := &sink{w: w}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return &slogLogger{
		logger: slog.New(handler),
		level:  level,
		out:    out,
	}
}

func (l *slogLogger) log(level Level, msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	switch level {
	case LevelDebug:
		l.logger.Debug(msg)
	case LevelInfo:
		l.logger.Info(msg)
	case LevelWarn:
		l.logger.Warn(msg)
	default:
		l.logger.Error(msg)
	}
}

func (l *slogLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *slogLogger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *slogLogger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *slogLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *slogLogger) WithField(key string, value interface{}) Logger {
	return &slogLogger{
		logger: l.logger.With(key, value),
		level:  l.level,
		out:    l.out,
	}
}

func (l *slogLogger) WithFields(fields map[string]interface{}) Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		attrs = append(attrs, k, fields[k])
	}
	return &slogLogger{
		logger: l.logger.With(attrs...),
		level:  l.level,
		out:    l.out,
	}
}

func (l *slogLogger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

func (l *slogLogger) SetOutput(w io.Writer) {
	l.out.set(w)
}

// NopLogger is a logger that discards all output.
type NopLogger struct{}

func (NopLogger) Debug(msg string, args ...interface{})             {}
func (NopLogger) Info(msg string, args ...interface{})              {}
func (NopLogger) Warn(msg string, args ...interface{})              {}
func (NopLogger) Error(msg string, args ...interface{})             {}
func (n NopLogger) WithField(key string, value interface{}) Logger  { return n }
func (n NopLogger) WithFields(fields map[string]interface{}) Logger { return n }
func (NopLogger) SetLevel(level Level)                              {}
func (NopLogger) SetOutput(w io.Writer)                             {}
