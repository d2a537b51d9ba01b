// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all the styled components for the application. Colors are
// adaptive, so lipgloss picks the light or dark variant at render time.
type Theme struct {
	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderStatus lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble  lipgloss.Style
	AIMessage   lipgloss.Style
	Avatar      lipgloss.Style
	Timestamp   lipgloss.Style
	ImageCard   lipgloss.Style
	WelcomeBox  lipgloss.Style
	WelcomeHead lipgloss.Style
	Typing      lipgloss.Style

	// ==========================================================================
	// MARKDOWN
	// ==========================================================================

	Heading    [3]lipgloss.Style
	Bold       lipgloss.Style
	Italic     lipgloss.Style
	Strike     lipgloss.Style
	InlineCode lipgloss.Style
	Link       lipgloss.Style
	Rule       lipgloss.Style
	Bullet     lipgloss.Style
	Quote      lipgloss.Style

	// ==========================================================================
	// CODE BLOCK
	// ==========================================================================

	CodeBlock    lipgloss.Style
	CodeLangTag  lipgloss.Style
	CodeCopy     lipgloss.Style
	CodeCopied   lipgloss.Style
	CodeLineNum  lipgloss.Style
	CodeKeyword  lipgloss.Style
	CodeString   lipgloss.Style
	CodeComment  lipgloss.Style
	CodeNumber   lipgloss.Style
	CodeDefault  lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS
	// ==========================================================================

	InputContainer lipgloss.Style
	InputDisabled  lipgloss.Style
	StatusBar      lipgloss.Style
	StatusOK       lipgloss.Style
	StatusError    lipgloss.Style
	Listening      lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	t := &Theme{}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderStatus = lipgloss.NewStyle().
		Foreground(Emerald)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AIMessage = lipgloss.NewStyle().
		Foreground(AIBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(AIBubbleBorder).
		PaddingLeft(1)

	t.Avatar = lipgloss.NewStyle().MarginRight(1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ImageCard = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 2)

	t.WelcomeBox = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Align(lipgloss.Center).
		Padding(1, 2)

	t.WelcomeHead = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Typing = lipgloss.NewStyle().Foreground(Purple)

	// Markdown
	t.Heading[0] = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(Purple)
	t.Heading[1] = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.Heading[2] = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.Bold = lipgloss.NewStyle().Bold(true)
	t.Italic = lipgloss.NewStyle().Italic(true)
	t.Strike = lipgloss.NewStyle().Strikethrough(true)
	t.InlineCode = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(Cyan)
	t.Link = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
	t.Rule = lipgloss.NewStyle().Foreground(Overlay)
	t.Bullet = lipgloss.NewStyle().Foreground(Purple)
	t.Quote = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(OverlayDim).
		PaddingLeft(1)

	// Code block
	t.CodeBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.CodeLangTag = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(OverlayDim).
		Padding(0, 1).
		Bold(true)
	t.CodeCopy = lipgloss.NewStyle().Foreground(TextMuted)
	t.CodeCopied = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)
	t.CodeKeyword = lipgloss.NewStyle().Foreground(CodeKeyword).Bold(true)
	t.CodeString = lipgloss.NewStyle().Foreground(CodeString)
	t.CodeComment = lipgloss.NewStyle().Foreground(CodeComment).Italic(true)
	t.CodeNumber = lipgloss.NewStyle().Foreground(CodeNumber)
	t.CodeDefault = lipgloss.NewStyle().Foreground(CodePlain)

	// Input and status
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.InputDisabled = t.InputContainer.
		BorderForeground(OverlayDim)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)
	t.StatusOK = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Listening = lipgloss.NewStyle().Foreground(Amber).Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentWidth is the usable width for message bodies.
func (t *Theme) ContentWidth() int {
	w := t.Width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// BubbleWidth caps user bubbles so they stay visibly right-aligned.
func (t *Theme) BubbleWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return t.ContentWidth()
	case LayoutMedium:
		return t.ContentWidth() * 3 / 4
	default:
		return t.ContentWidth() * 2 / 3
	}
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
