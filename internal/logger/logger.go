// Package logger builds the slog logger used for CLI diagnostics.
//
// User-facing output (progress and result lines) is printed by the commands
// themselves; the logger only carries debugging detail and warnings to stderr.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a text logger writing to w. Debug forces the debug level;
// otherwise LOG_LEVEL decides, defaulting to info.
func New(w io.Writer, debug bool) *slog.Logger {
	level := levelFromEnv()
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewLogger returns a logger on stderr configured from the environment.
func NewLogger() *slog.Logger {
	return New(os.Stderr, false)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Scope tags a record with the component that produced it.
func Scope(name string) slog.Attr {
	return slog.String("scope", name)
}

// Error attaches err under the conventional "error" key.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
