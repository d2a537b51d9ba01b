// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/ui/components"
	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
)

// transcriptCache keeps rendered bubbles between frames. Messages never
// change after they are appended, so a bubble only needs re-rendering when
// the width or its copy acknowledgement changes.
type transcriptCache struct {
	bubbles map[string]cachedBubble

	// body is the joined transcript from the last full refresh.
	body  string
	empty bool

	// renders counts bubble renders.
	renders int
}

type cachedBubble struct {
	width  int
	copied string
	view   string
}

func newTranscriptCache() *transcriptCache {
	return &transcriptCache{bubbles: make(map[string]cachedBubble), empty: true}
}

// bubble returns the rendered view of msg, rendering it only on a miss.
func (c *transcriptCache) bubble(msg model.Message, theme *styles.Theme, width int, timestamps bool, btn components.CopyButton) string {
	copied := ""
	if active := btn.Active(); strings.HasPrefix(active, msg.ID()+"#") {
		copied = active
	}

	if hit, ok := c.bubbles[msg.ID()]; ok && hit.width == width && hit.copied == copied {
		return hit.view
	}

	b := components.NewMessageBubble(msg, theme)
	b.Width = width
	b.ShowTimestamp = timestamps
	b.Copy = btn
	view := b.View()

	c.renders++
	c.bubbles[msg.ID()] = cachedBubble{width: width, copied: copied, view: view}
	return view
}

// rebuild renders msgs into body, reusing cached bubbles.
func (c *transcriptCache) rebuild(msgs []model.Message, theme *styles.Theme, width int, timestamps bool, btn components.CopyButton) {
	c.empty = len(msgs) == 0
	parts := make([]string, len(msgs))
	for i, msg := range msgs {
		parts[i] = c.bubble(msg, theme, width, timestamps, btn)
	}
	c.body = strings.Join(parts, "\n\n")
}
