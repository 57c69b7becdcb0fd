package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output. Tests construct engines and stores with
// it so assertions stay on behavior, not log text.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}
