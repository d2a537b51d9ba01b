// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the cosmos TUI.

All colors use Lip Gloss AdaptiveColor so light and dark terminals both get a
readable palette without configuration.

# Colors (colors.go)

  - Purple, Cyan - accents for the header and AI messages
  - Emerald, Amber, Rose - success, listening and error states
  - UserBubble*, AIBubble* - message bubbles
  - Code* - the four token classes of the code block unit

# Theme (theme.go)

Theme bundles the lipgloss styles the chat view uses and tracks the window
size for responsive layouts:

	theme := styles.NewTheme()
	theme.SetSize(msg.Width, msg.Height)
	fmt.Println(theme.UserBubble.Render("Hello"))
*/
package styles
