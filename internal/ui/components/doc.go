// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual pieces of the cosmos chat screen.

# Display Components

Header (header.go) - Title bar with the app name, online status and active model.
Welcome (welcome.go) - Greeting shown while the transcript is empty.
MessageBubble (message.go) - Right-aligned user bubbles and left-aligned AI replies.
MarkdownView (markdown.go) - Styled rendering of parsed markdown blocks.
CodeBlock (codeblock.go) - Fenced code with a language tag, line numbers,
token classes and a copy acknowledgement.
StatusBar (statusbar.go) - Bottom line with busy/listening state and key hints.

# Theme Integration

All components take a *styles.Theme:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetModel("gemini-3-flash-preview")
	view := header.View()

# Copy State

CopyButton owns the "Copied!" acknowledgement. Copy returns a tea.Cmd that
fires CopyResetMsg after CopyResetDelay; feed that message back to Reset.
*/
package components
