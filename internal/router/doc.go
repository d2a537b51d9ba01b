// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router decides which Gemini endpoint a prompt goes to.
//
// A prompt whose lowercase form starts with "generate image" goes to the
// image endpoint. Everything else goes to the text endpoint. The check runs
// on the prompt exactly as typed, so leading whitespace defeats it.
//
//	switch router.Classify(prompt).Route {
//	case router.RouteImage:
//	    uri, err := backend.GenerateImage(ctx, prompt)
//	case router.RouteText:
//	    text, err := backend.GenerateText(ctx, prompt)
//	}
package router
