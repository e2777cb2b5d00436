package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a logger writing to w at the named level ("debug", "info",
// "warn", "error") in text or json format.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}
