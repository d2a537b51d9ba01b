// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
	"github.com/jeranaias/cosmos-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status is the conversation state shown in the status bar.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon pairs each status with a distinct shape so it reads without colour.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return "✓"
	case StatusThinking:
		return "○"
	case StatusError:
		return "✗"
	default:
		return "?"
	}
}

// StatusBar is the bottom line of the chat screen.
type StatusBar struct {
	Status    Status
	ModelName string
	Listening bool
	Speaking  bool

	// Message is a transient note such as "Copied code block" or an error.
	Message string
	// Hints is the rendered key help, usually from bubbles/help.
	Hints string

	Width int
	theme *styles.Theme
}

// NewStatusBar creates a status bar in the ready state.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetModel shows the friendly name when the model is known.
func (s *StatusBar) SetModel(id string) {
	s.ModelName = model.DisplayName(id)
}

// SetStatus updates the status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetMessage shows a transient message. An empty string clears it.
func (s *StatusBar) SetMessage(msg string) {
	s.Message = msg
}

// View renders the bar: status on the left, hints on the right.
func (s *StatusBar) View() string {
	t := s.theme

	statusStyle := t.StatusOK
	if s.Status == StatusError {
		statusStyle = t.StatusError
	} else if s.Status == StatusThinking {
		statusStyle = t.Typing
	}

	parts := []string{statusStyle.Render(s.Status.Icon() + " " + s.Status.String())}
	if s.Listening {
		parts = append(parts, t.Listening.Render("🎤 Listening"))
	}
	if s.Speaking {
		parts = append(parts, t.StatusOK.Render("🔊 Speaking"))
	}
	if s.ModelName != "" {
		parts = append(parts, util.TruncateWidth(s.ModelName, 32))
	}
	if s.Message != "" {
		msgStyle := t.StatusBar
		if s.Status == StatusError {
			msgStyle = t.StatusError
		}
		parts = append(parts, msgStyle.Render(s.Message))
	}
	left := strings.Join(parts, " · ")

	width := s.Width - 2
	right := s.Hints
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		// Hints go first when space runs out.
		right = ""
		gap = width - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}
	return t.StatusBar.MaxWidth(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
