package logging

import (
	"io"
	"log/slog"
	"os"
)

// Console returns the diagnostics logger used by the CLI. Diagnostics go to
// stderr so reports on stdout stay clean.
func Console(verbose bool) *slog.Logger {
	return NewConsole(os.Stderr, verbose)
}

func NewConsole(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
