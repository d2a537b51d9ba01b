// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Transcript is the ordered message history of a session. Entries are only
// ever appended; nothing is edited or removed. The zero value is ready to use.
//
// Transcript does no locking of its own. The owner serializes access.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// Messages returns a copy of the messages in creation order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the newest message, if any.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// LastOf returns the newest message matching role and kind.
func (t *Transcript) LastOf(role Role, kind Kind) (Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		m := t.messages[i]
		if m.role == role && m.kind == kind {
			return m, true
		}
	}
	return Message{}, false
}
