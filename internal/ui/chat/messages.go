// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cosmos-tui/internal/conversation"
	"github.com/jeranaias/cosmos-tui/internal/speech"
)

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// responseMsg carries a finished dispatch back to the event loop.
type responseMsg struct {
	outcome conversation.Outcome
}

// conversationEventMsg forwards a change in the conversation machine.
type conversationEventMsg struct {
	event conversation.Event
}

// waitForEvent delivers the next conversation change as a message.
func waitForEvent(events <-chan conversation.Event) tea.Cmd {
	return func() tea.Msg {
		return conversationEventMsg{event: <-events}
	}
}

// =============================================================================
// SPEECH MESSAGES
// =============================================================================

// speechResultMsg delivers a recognized utterance.
type speechResultMsg struct {
	session *speech.Session
	text    string
}

// speechDoneMsg reports that a listening session ended.
type speechDoneMsg struct {
	session *speech.Session
}

// =============================================================================
// FILE MESSAGES
// =============================================================================

// imageSavedMsg reports the result of saving an image to disk.
type imageSavedMsg struct {
	path string
	err  error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ModelsChangedMsg tells a running chat that the backend now uses different
// models, typically after a config file reload.
type ModelsChangedMsg struct {
	TextModel  string
	ImageModel string
}
