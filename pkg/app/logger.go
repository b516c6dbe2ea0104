package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/vango-dev/vmini/internal/config"
)

// NewLogger builds a slog logger from the log section of a config.
// A nil w writes to stderr.
func NewLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	c := config.Config{Log: cfg}
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
