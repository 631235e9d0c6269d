// Package slogger provides structured logging for chisel. Loggers write to
// stderr so that stdout stays free for transports that own it.
package slogger

import "strings"

// DefaultLogger is used when no logger is configured. It discards all
// records.
var DefaultLogger = Nop()

// Logger is the structured logging interface used throughout chisel.
// Key-value pairs follow the message, slog style.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// With returns a logger that includes the given key-value pairs on
	// every record it emits.
	With(keysAndValues ...any) Logger
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...any) {}
func (nopLogger) Info(msg string, keysAndValues ...any)  {}
func (nopLogger) Warn(msg string, keysAndValues ...any)  {}
func (nopLogger) Error(msg string, keysAndValues ...any) {}
func (nopLogger) With(keysAndValues ...any) Logger       { return nopLogger{} }

// LevelFromString converts a string to a LogLevel. Unknown values map to
// the default level.
func LevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return DefaultLogLevel
	}
}
