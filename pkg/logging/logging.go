// Package logging builds the process slog.Logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goliatone/go-bookingform/pkg/config"
)

// New returns a logger writing text or JSON records at the configured level.
// A nil writer means stderr.
func New(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case config.FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case config.FormatText, "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}
	return slog.New(handler), nil
}

// Component returns a child logger tagged with a component name.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}
