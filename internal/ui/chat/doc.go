// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea model for the cosmos chat screen.
//
// The model owns no conversation state of its own: it forwards input to a
// conversation.Machine, runs each Dispatch in a tea.Cmd goroutine, and
// hands the result back to the machine on the event loop. Rendering reads
// the machine's transcript and busy flag.
//
// Layout, top to bottom: header, scrolling transcript (or the welcome
// screen), input box, status bar.
package chat
