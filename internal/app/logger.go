package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/vozlab/asistente-backend/internal/config"
)

// NewLogger builds the process-wide *slog.Logger from LogConfig and installs
// it via slog.SetDefault, so stray library logging lands in the same stream.
//
// Format "json" is for deployment; "text" adds source locations for local
// runs. Level accepts debug/info/warn/error case-insensitively and falls back
// to info. Everything goes to os.Stderr, keeping stdout free.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
