// Package log configures the process-wide slog default. Everything else in
// the codebase logs through slog directly.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default slog logger from the environment: LOG_LEVEL
// (debug, info, warn, error) and LOG_FORMAT (text or json). The service
// name is attached to every record.
func Setup(service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}

	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("service", service)
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
