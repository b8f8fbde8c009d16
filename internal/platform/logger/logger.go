package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Output is JSON on
// stdout so log collectors can ingest it without a parsing step.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
