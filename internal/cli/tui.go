// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cosmos-tui/internal/config"
	"github.com/jeranaias/cosmos-tui/internal/conversation"
	"github.com/jeranaias/cosmos-tui/internal/ui/chat"
	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
)

// runTUI starts the full-screen chat and blocks until it exits.
func runTUI(ctx context.Context, opts *rootOptions, a *app) error {
	applyTheme(a.cfg.UI.Theme)

	machine := conversation.New(a.backend, a.synth)
	m := chat.New(styles.NewTheme(), chat.Options{
		Machine:        machine,
		Synth:          a.synth,
		Recognizer:     a.recognizer,
		ModelName:      a.cfg.Gemini.TextModel,
		ShowTimestamps: a.cfg.UI.ShowTimestamps,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	err := config.Watch(watchCtx, a.cfgPath, func(cfg *config.Config) {
		opts.applyFlags(cfg)
		a.backend.SetModels(cfg.Gemini.TextModel, cfg.Gemini.ImageModel)
		p.Send(chat.ModelsChangedMsg{
			TextModel:  cfg.Gemini.TextModel,
			ImageModel: cfg.Gemini.ImageModel,
		})
	})
	if err != nil {
		// Usually the config directory does not exist yet.
		slog.Warn("config_watch_unavailable", "path", a.cfgPath, "error", err)
	}

	final, err := p.Run()
	if cm, ok := final.(chat.Model); ok {
		cm.Shutdown()
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
