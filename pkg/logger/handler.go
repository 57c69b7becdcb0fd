package logger

import (
	"log/slog"
	"os"
)

// NewDaemonHandler emits JSON lines to stdout. This is the handler the
// syncd process runs with so its logs can be collected from the service
// manager.
func NewDaemonHandler(level slog.Level) slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// NewConsoleHandler emits human-readable text to stderr, for running syncd
// in a terminal.
func NewConsoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
