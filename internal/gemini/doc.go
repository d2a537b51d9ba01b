// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the clients for the Gemini generateContent API.
//
// Two calls are exposed, one per endpoint:
//
//   - GenerateText: returns the first candidate's first text part, or the
//     literal "No response" when the response carries no such part.
//   - GenerateImage: returns the first inline image part as a
//     data:image/png;base64 URI, or ErrNoImageData when there is none.
//
// The text call degrades gracefully and the image call does not. Callers must
// be ready for either behavior.
//
// # Backends
//
//   - Client: raw HTTP + JSON, the default
//   - SDKBackend: google.golang.org/genai
//
// Both satisfy Backend and are built with NewBackend.
//
// # Usage
//
//	client := gemini.NewClientWithConfig(&gemini.ClientConfig{APIKey: key})
//	reply, err := client.GenerateText(ctx, "Hello")
//	uri, err := client.GenerateImage(ctx, "generate image of a cat")
package gemini
