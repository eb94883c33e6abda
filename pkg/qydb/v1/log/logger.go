// Package log defines the public logging interface used across quick-yaml.db
// packages.
package log

import (
	"context"
	"log/slog"
)

// Logger defines the logging operations the store and its collaborators use.
// It allows embedders to plug in their own logging implementation; the
// default implementation is backed by the standard library's slog.
type Logger interface {
	// Debugf logs a formatted message at the DEBUG level.
	// Arguments are handled in the manner of fmt.Sprintf.
	Debugf(format string, args ...interface{})
	// Infof logs a formatted message at the INFO level.
	Infof(format string, args ...interface{})
	// Warnf logs a formatted message at the WARN level.
	Warnf(format string, args ...interface{})
	// Errorf logs a formatted message at the ERROR level. Implementations
	// should check whether the last argument is an error and log it
	// structurally.
	Errorf(format string, args ...interface{})

	// Log logs a message at the specified slog.Level with additional
	// key-value attributes. This is the primary structured logging method.
	Log(level slog.Level, msg string, args ...interface{})
	// LogCtx logs a message at the specified slog.Level, including context
	// information such as trace IDs when the implementation supports it.
	LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{})

	// With returns a new Logger with the given attributes attached to all
	// subsequent log entries.
	With(args ...interface{}) Logger
	// IsEnabled checks whether the logger emits at the given level. Useful
	// to skip expensive attribute computation for discarded records.
	IsEnabled(level slog.Level) bool
}
