// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
)

// ParseLevel maps a config level string to a slog level. Unknown
// strings fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs a text handler writing to stderr as the default
// logger, so command output on stdout stays machine-readable.
func Setup(level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}
