// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/model"
)

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	m.status.Speaking = m.synth.Speaking()
	m.status.Hints = m.help.ShortHelpView(m.keys.ShortHelp())

	parts := []string{
		m.header.View(),
		m.viewport.View(),
		m.renderInput(),
		m.status.View(),
	}
	if m.help.ShowAll {
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// composeTranscript joins the cached transcript body with the typing line.
func (m Model) composeTranscript() string {
	busy := m.machine.IsBusy()
	switch {
	case m.cache.empty && !busy:
		m.welcome.SetSize(m.viewport.Width, m.viewport.Height)
		return m.welcome.View()
	case !busy:
		return m.cache.body
	case m.cache.empty:
		return m.renderTyping()
	}
	return m.cache.body + "\n\n" + m.renderTyping()
}

func (m Model) renderTyping() string {
	return model.RoleAI.Avatar() + " " + m.spinner.View() + m.theme.Typing.Render(" Thinking...")
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer
	if m.machine.IsBusy() {
		style = m.theme.InputDisabled
	}
	width := m.width - 2
	if width < 12 {
		width = 12
	}
	return style.Width(width).Render(m.input.View())
}
