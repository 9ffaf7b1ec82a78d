package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dhcgn/fbmessage-stats/config"
)

// setupLogger builds the text logger used by every command. With a log
// directory configured, output is written to stderr and to a new file.
func setupLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogDir == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() error { return nil }, nil
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("fbmessage-stats-%s.log", time.Now().Format("20060102T150405"))
	file, err := os.OpenFile(filepath.Join(cfg.LogDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, file), opts))
	return logger, file.Close, nil
}
