package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the application logger. Production emits JSON, everything
// else a readable text handler. LOG_LEVEL may be: debug, info, warn, error
// (default: info). Every record carries the service name so log aggregation
// can tell the API apart from sidecars sharing the same stream.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(os.Getenv("LOG_LEVEL"))}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "doorlist-api")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
