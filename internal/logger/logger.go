// Package logger provides a simple wrapper around slog for structured logging.
package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is the global logger instance. It starts on stderr; once the
// TUI takes over the terminal, call SetFile so log lines don't corrupt
// the alternate screen.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetFile redirects logging to the given file path, appending. The
// returned closer flushes and closes the file. Debug logging is
// enabled when the DEBUG environment variable is set.
func SetFile(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}

	Logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return f.Close, nil
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
