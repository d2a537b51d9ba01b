// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech bridges the chat to the platform's speech engines.
//
// Both capabilities are optional and detected once at startup:
//
//   - Synthesizer: text-to-speech playback. Speak cancels whatever is playing
//     and starts the new utterance, so at most one plays at a time.
//   - Recognizer: speech-to-text capture. Each Start creates a Session that
//     yields at most one final result and then ends.
//
// When an engine is missing, Detect returns a no-op implementation whose
// Supported reports false. Callers branch on Supported and never have to
// handle a nil capability.
//
// ToSpeechText turns markdown into plain text suitable for playback.
package speech
