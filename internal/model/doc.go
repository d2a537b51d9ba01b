// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// # Key Types
//
//   - Message: Immutable transcript entry with role, kind, text and image payload
//   - Transcript: Append-only, ordered list of messages
//   - ModelInfo: Information about a Gemini model (ID, capability)
//   - Role: Sender enumeration (user, ai)
//   - Kind: Payload enumeration (text, image)
//
// # Usage
//
//	var t model.Transcript
//	t.Append(model.NewUserMessage("Hello!"))
//	t.Append(model.NewAIText("Hi there"))
//	for _, m := range t.Messages() {
//	    fmt.Println(m.Role, m.Text)
//	}
package model
