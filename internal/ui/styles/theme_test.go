// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"AIMessage", theme.AIMessage},
		{"CodeBlock", theme.CodeBlock},
		{"CodeKeyword", theme.CodeKeyword},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
	}

	for _, s := range styles {
		if s.style.Render("test") == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme()
	for _, tc := range tests {
		theme.SetSize(tc.width, 40)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("width %d: GetLayoutMode() = %d, want %d", tc.width, got, tc.want)
		}
	}
}

func TestBubbleWidth(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(10, 20)
	if got := theme.ContentWidth(); got != 20 {
		t.Errorf("ContentWidth() = %d, want minimum 20", got)
	}

	theme.SetSize(124, 40)
	if got := theme.BubbleWidth(); got != 80 {
		t.Errorf("BubbleWidth() = %d, want 80", got)
	}
	if theme.BubbleWidth() >= theme.ContentWidth() {
		t.Error("wide layouts should leave room for right alignment")
	}
}
