// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/markdown"
	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN VIEW
// =============================================================================

// MarkdownView renders parsed markdown blocks with the theme's styles.
type MarkdownView struct {
	Theme *styles.Theme
	Width int

	// IsCopied reports whether the code block at the given document index
	// should show the copied acknowledgement. May be nil.
	IsCopied func(index int) bool
}

// Render parses src and returns the styled text.
func (v MarkdownView) Render(src string) string {
	r := mdRenderer{view: v}
	return r.blocks(markdown.Parse(src), v.Width)
}

type mdRenderer struct {
	view      MarkdownView
	codeIndex int
}

func (r *mdRenderer) blocks(blocks []markdown.Block, width int) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, r.block(b, width))
	}
	return strings.Join(parts, "\n\n")
}

func (r *mdRenderer) block(b markdown.Block, width int) string {
	t := r.view.Theme
	if width < 10 {
		width = 10
	}

	switch b.Kind {
	case markdown.BlockHeading:
		idx := b.Level - 1
		if idx < 0 {
			idx = 0
		}
		if idx > len(t.Heading)-1 {
			idx = len(t.Heading) - 1
		}
		return t.Heading[idx].Width(width).Render(r.spans(b.Spans, t.Heading[idx]))

	case markdown.BlockParagraph:
		return lipgloss.NewStyle().Width(width).Render(r.spans(b.Spans, lipgloss.NewStyle()))

	case markdown.BlockRule:
		return t.Rule.Render(strings.Repeat("─", width))

	case markdown.BlockCode:
		idx := r.codeIndex
		r.codeIndex++
		cb := NewCodeBlock(b.Lang, b.Code)
		cb.MaxWidth = width + 4
		cb.Copied = r.view.IsCopied != nil && r.view.IsCopied(idx)
		return cb.Render(t)

	case markdown.BlockQuote:
		return t.Quote.Render(r.blocks(b.Children, width-2))

	case markdown.BlockList:
		return r.list(b, width)
	}
	return ""
}

func (r *mdRenderer) list(b markdown.Block, width int) string {
	t := r.view.Theme
	start := b.Start
	if start == 0 {
		start = 1
	}

	items := make([]string, 0, len(b.Items))
	for i, item := range b.Items {
		marker := "•"
		if b.Ordered {
			marker = strconv.Itoa(start+i) + "."
		}
		marker = t.Bullet.Render(marker) + " "
		indent := lipgloss.Width(marker)

		var body []string
		for _, child := range item {
			body = append(body, r.block(child, width-indent))
		}
		content := strings.Join(body, "\n")
		items = append(items, lipgloss.JoinHorizontal(lipgloss.Top, marker, content))
	}
	return strings.Join(items, "\n")
}

// spans renders inline runs. Each run also carries base, so a heading's
// color survives the resets emitted between runs.
func (r *mdRenderer) spans(spans []markdown.Span, base lipgloss.Style) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(r.spanStyle(s.Style, base).Render(s.Text))
	}
	return sb.String()
}

func (r *mdRenderer) spanStyle(st markdown.Style, base lipgloss.Style) lipgloss.Style {
	t := r.view.Theme
	style := lipgloss.NewStyle()
	if st.Has(markdown.StyleCode) {
		style = t.InlineCode
	}
	if st.Has(markdown.StyleStrong) {
		style = style.Inherit(t.Bold)
	}
	if st.Has(markdown.StyleEmphasis) {
		style = style.Inherit(t.Italic)
	}
	if st.Has(markdown.StyleStrike) {
		style = style.Inherit(t.Strike)
	}
	if st.Has(markdown.StyleLink) {
		style = style.Inherit(t.Link)
	}
	return style.Inherit(base)
}
