// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/stolasapp/facet/internal/config"
)

// InitSlog initializes a logger with the given config. When running in a
// terminal, it uses a human-readable text format; otherwise it uses JSON for
// structured logging.
func InitSlog(cfg *config.Config) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, term.IsTerminal(int(os.Stdin.Fd())), cfg))
}

// NewHandler builds the handler [InitSlog] installs, writing to w.
func NewHandler(w io.Writer, text bool, cfg *config.Config) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: cfg.DevMode,
		Level:     cfg.LogLevel.Level(),
	}
	if text {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Component derives the logger for a named component.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", name))
}
