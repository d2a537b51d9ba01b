// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// =============================================================================
// REQUEST TYPES
// =============================================================================

// GenerateRequest is the request body for :generateContent.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Content is one turn of input. Only a single user turn is ever sent.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a text fragment of a content turn.
type Part struct {
	Text string `json:"text"`
}

// NewGenerateRequest builds a request whose sole content part is prompt.
func NewGenerateRequest(prompt string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
	}
}

// =============================================================================
// RESPONSE PATHS
// =============================================================================

// Responses are read with gjson paths rather than decoded into structs, so a
// missing field degrades instead of failing the decode.
const (
	pathFirstText  = "candidates.0.content.parts.0.text"
	pathFirstParts = "candidates.0.content.parts"
	pathInlineData = "inlineData.data"
	pathAPIError   = "error.message"
)

// NoResponseText is returned by GenerateText when the reply has no text part.
const NoResponseText = "No response"
