package slogger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var (
	DefaultLogLevel = LevelInfo
)

// LogLevel represents the minimum log level
type LogLevel slog.Level

// Available log levels
const (
	LevelDebug LogLevel = LogLevel(slog.LevelDebug)
	LevelInfo  LogLevel = LogLevel(slog.LevelInfo)
	LevelWarn  LogLevel = LogLevel(slog.LevelWarn)
	LevelError LogLevel = LogLevel(slog.LevelError)
)

// Slogger implements the Logger interface using slog
type Slogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// New returns a new Slogger instance that writes to stderr. Stdout is left
// alone so loggers never interleave with a protocol stream served on it.
func New(level LogLevel) *Slogger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(level))
	tintHandler := tint.NewHandler(os.Stderr, &tint.Options{
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.Kitchen,
		Level:      levelVar,
	})
	return &Slogger{
		logger: slog.New(tintHandler),
		level:  levelVar,
	}
}

// NewWithWriter returns a new Slogger instance that writes to w without color.
func NewWithWriter(w io.Writer, level LogLevel) *Slogger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(level))
	tintHandler := tint.NewHandler(w, &tint.Options{
		NoColor:    true,
		TimeFormat: time.Kitchen,
		Level:      levelVar,
	})
	return &Slogger{
		logger: slog.New(tintHandler),
		level:  levelVar,
	}
}

// SetLevel changes the minimum level of this logger and of any loggers
// derived from it with With.
func (l *Slogger) SetLevel(level LogLevel) {
	l.level.Set(slog.Level(level))
}

func (l *Slogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, withCaller(keysAndValues...)...)
}

func (l *Slogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, withCaller(keysAndValues...)...)
}

func (l *Slogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, withCaller(keysAndValues...)...)
}

func (l *Slogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, withCaller(keysAndValues...)...)
}

func (l *Slogger) With(keysAndValues ...any) Logger {
	return &Slogger{logger: l.logger.With(keysAndValues...), level: l.level}
}

func withCaller(keysAndValues ...any) []any {
	const callerSkip = 2 // Skip withCaller and the logging function
	if _, file, line, ok := runtime.Caller(callerSkip); ok {
		caller := formatCaller(file, line)
		return append([]any{"caller", caller}, keysAndValues...)
	}
	return keysAndValues
}

func formatCaller(file string, line int) string {
	// Take the last two path components for readability
	parts := strings.Split(file, "/")
	switch len(parts) {
	case 0:
		return "unknown"
	case 1:
		return fmt.Sprintf("%s:%d", parts[0], line)
	default:
		return fmt.Sprintf("%s/%s:%d",
			parts[len(parts)-2],
			parts[len(parts)-1],
			line)
	}
}
