package logging

import (
	"log/slog"
	"os"
)

// New builds the process logger. Text output for interactive use, JSON when
// APP_ENV=prod; debug lowers the level.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("APP_ENV") == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
