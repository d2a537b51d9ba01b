// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging routes log/slog output to a rotating file. Nothing is
// ever written to stdout or stderr, which belong to the TUI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jeranaias/cosmos-tui/internal/config"
)

const defaultLogFile = "cosmos.log"

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Init installs a slog default logger writing to the configured file. The
// returned closer flushes and closes the file. When the log directory cannot
// be created, logs are discarded and the error is returned.
func Init(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	logPath := strings.TrimSpace(cfg.Path)
	if logPath == "" {
		logPath = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		logger := slog.New(newHandler(cfg.Format, io.Discard, opts))
		slog.SetDefault(logger)
		return logger, io.NopCloser(nil), err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	logger := slog.New(newHandler(cfg.Format, writer, opts)).With("pid", os.Getpid())
	slog.SetDefault(logger)
	return logger, writer, nil
}

// DefaultPath is ~/.cosmos/logs/cosmos.log.
func DefaultPath() string {
	dir, err := config.Dir()
	if err != nil {
		return filepath.Join(".cosmos", "logs", defaultLogFile)
	}
	return filepath.Join(dir, "logs", defaultLogFile)
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(out, opts)
	default:
		return slog.NewTextHandler(out, opts)
	}
}
