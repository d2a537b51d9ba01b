// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce coalesces the burst of events an editor save produces.
var WatchDebounce = 150 * time.Millisecond

// Watch calls fn with the reloaded configuration each time the file at path
// changes. The parent directory is watched rather than the file so atomic
// saves (write temp, rename) are seen. Invalid files are logged and skipped.
// Watching stops when ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch config: %w", err)
	}

	go watchLoop(ctx, w, abs, fn)
	return nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, fn func(*Config)) {
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(WatchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFrom(path)
			if err != nil {
				slog.Warn("config_reload_failed", "path", path, "error", err)
				continue
			}
			slog.Info("config_reloaded", "path", path,
				"text_model", cfg.Gemini.TextModel,
				"image_model", cfg.Gemini.ImageModel,
			)
			fn(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Warn("config_watch_error", "error", err)
		}
	}
}
