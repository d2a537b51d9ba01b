// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
	"github.com/jeranaias/cosmos-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// DefaultTitle is the application name shown in the header.
const DefaultTitle = "Cosmos ChatBoat"

// Header is the title bar: logo, title, online indicator and model name.
type Header struct {
	Title     string
	ModelName string
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header with the default title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: DefaultTitle,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the displayed model name.
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// View renders the header. Narrow terminals get the compact form.
func (h *Header) View() string {
	if h.Width < 50 {
		return h.ViewCompact()
	}
	t := h.theme
	innerWidth := h.Width - 6

	left := "✨ " + t.HeaderTitle.Render(h.Title)

	status := t.HeaderStatus.Render("● Online")
	if h.ModelName != "" {
		room := innerWidth - lipgloss.Width(left) - lipgloss.Width(status) - 5
		if room > 8 {
			status = t.Timestamp.Render(util.TruncateWidth(h.ModelName, room)) + "  " + status
		}
	}

	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + status

	return t.Header.Width(h.Width - 2).Render(line)
}

// ViewCompact renders a single unframed line.
func (h *Header) ViewCompact() string {
	t := h.theme
	return "✨ " + t.HeaderTitle.Render(h.Title) + " " + t.HeaderStatus.Render("●")
}
