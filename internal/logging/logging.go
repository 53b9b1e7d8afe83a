// Package logging routes slog output into the per-run debug log file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string // debug, info, warn, error
	FilePath   string // empty = stderr only
	MaxSizeMB  int
	MaxBackups int
	Fresh      bool // remove any previous log before opening
}

func DefaultConfig(path string) Config {
	return Config{
		Level:      "debug",
		FilePath:   path,
		MaxSizeMB:  100,
		MaxBackups: 1,
		Fresh:      true,
	}
}

// Setup installs the default slog logger and returns a cleanup function that
// flushes and closes the log file.
func Setup(cfg Config) (func() error, error) {
	w, cleanup, err := open(cfg)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	slog.SetDefault(slog.New(handler))

	return cleanup, nil
}

func open(cfg Config) (io.Writer, func() error, error) {
	if cfg.FilePath == "" {
		return os.Stderr, func() error { return nil }, nil
	}

	if dir := filepath.Dir(cfg.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	if cfg.Fresh {
		if err := os.Remove(cfg.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("remove previous log: %w", err)
		}
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}
	return lj, lj.Close, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
