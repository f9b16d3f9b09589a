package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Subsystem names used across the pipeline.
const (
	Config   = "config"
	Data     = "data"
	Features = "features"
	Search   = "search"
	Training = "training"
	Tracking = "tracking"
	Server   = "server"
)

// Setup builds the process logger, sets it as the slog default and returns it.
// format is "text" for CLI runs and "json" for the API server.
func Setup(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// ForSubsystem tags every record emitted through the returned logger.
func ForSubsystem(logger *slog.Logger, subsystem string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("subsystem", subsystem)
}
