// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/cosmos-tui/internal/config"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestInitCreatesLogFile(t *testing.T) {
	restoreDefault(t)
	logPath := filepath.Join(t.TempDir(), "logs", "cosmos.log")

	logger, closer, err := Init(config.LoggingConfig{Level: "info", Format: "text", Path: logPath})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	logger.Info("hello", slog.String("component", "test"))
	logger.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "component=test") {
		t.Errorf("log missing record, got: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
}

func TestInitJSONSetsDefault(t *testing.T) {
	restoreDefault(t)
	logPath := filepath.Join(t.TempDir(), "cosmos.log")

	_, closer, err := Init(config.LoggingConfig{Level: "debug", Format: "json", Path: logPath})
	if err != nil {
		t.Fatal(err)
	}
	slog.Debug("via_default", "n", 3)
	closer.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", data, err)
	}
	if rec["msg"] != "via_default" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if got := DefaultPath(); !strings.HasSuffix(got, filepath.Join(".cosmos", "logs", "cosmos.log")) {
		t.Errorf("DefaultPath() = %q", got)
	}
}
