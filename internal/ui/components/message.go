// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
	"github.com/jeranaias/cosmos-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool

	// Copy reports the copied state of this message's code blocks.
	Copy CopyButton

	theme *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// CodeTarget names the code block at index within message id, for
// CopyButton bookkeeping.
func CodeTarget(id string, index int) string {
	return fmt.Sprintf("%s#%d", id, index)
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role() == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderAIMessage()
}

// renderUserBubble draws plain text, right-aligned.
func (b *MessageBubble) renderUserBubble() string {
	t := b.theme
	maxWidth := t.BubbleWidth()

	text := b.Message.Text()
	if util.StringWidth(text)+4 < maxWidth {
		maxWidth = util.StringWidth(text) + 4
	}
	bubble := t.UserBubble.Width(maxWidth - 2).Render(text)

	line := lipgloss.JoinHorizontal(lipgloss.Top, bubble, " ", t.Avatar.Render(model.RoleUser.Avatar()))
	if b.ShowTimestamp {
		line = lipgloss.JoinVertical(lipgloss.Right, line, t.Timestamp.Render(b.Message.TimeString()))
	}
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, line)
}

// renderAIMessage draws markdown or an image card, left-aligned.
func (b *MessageBubble) renderAIMessage() string {
	t := b.theme
	avatar := t.Avatar.Render(model.RoleAI.Avatar())
	bodyWidth := b.Width - lipgloss.Width(avatar) - 3

	var body string
	if b.Message.IsImage() {
		body = b.renderImageCard()
	} else {
		id := b.Message.ID()
		view := MarkdownView{
			Theme: t,
			Width: bodyWidth,
			IsCopied: func(i int) bool {
				return b.Copy.CopiedFor(CodeTarget(id, i))
			},
		}
		body = view.Render(b.Message.Text())
	}

	content := t.AIMessage.Render(body)
	if b.ShowTimestamp {
		content = lipgloss.JoinVertical(lipgloss.Left, content, t.Timestamp.Render(b.Message.TimeString()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, avatar, content)
}

func (b *MessageBubble) renderImageCard() string {
	size := util.FormatBytes(b.Message.ImageSize())
	return b.theme.ImageCard.Render(fmt.Sprintf("🖼 image (%s) · ctrl+s to save", size))
}
