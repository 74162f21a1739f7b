package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// openLogger returns a text logger appending to path. The terminal belongs to
// the countdown, so nothing is logged to stdout or stderr.
func openLogger(path, level string, debug bool) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: parseLevel(level, debug)})
	logger := slog.New(handler).With("pid", os.Getpid())
	return logger, func() { _ = file.Close() }, nil
}

func parseLevel(level string, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	switch strings.ToLower(level) {
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
