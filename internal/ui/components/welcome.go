// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

const (
	WelcomeTitle    = "Hello! I'm Gemini AI"
	WelcomeSubtitle = "Ask me anything! I can help with coding, explanations, creative writing, and more."
	welcomeImageTip = `Start a prompt with "generate image" to create a picture.`
)

// Welcome is shown in place of the transcript while it is empty.
type Welcome struct {
	width  int
	height int
	theme  *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{theme: theme}
}

// SetSize updates the area the greeting is centred in.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the greeting centred in the available area.
func (w Welcome) View() string {
	t := w.theme
	boxWidth := w.width - 4
	if boxWidth > 64 {
		boxWidth = 64
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		model.RoleAI.Avatar(),
		"",
		t.WelcomeHead.Render(WelcomeTitle),
		"",
		lipgloss.NewStyle().Width(boxWidth-4).Align(lipgloss.Center).Render(WelcomeSubtitle),
		"",
		t.Timestamp.Render(welcomeImageTip),
	)
	box := t.WelcomeBox.Width(boxWidth).Render(body)

	if w.width <= 0 || w.height <= 0 {
		return box
	}
	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
}
