// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// Capability is what a model produces.
type Capability string

const (
	CapabilityText  Capability = "text"
	CapabilityImage Capability = "image"
)

// ModelInfo describes a Gemini model the client knows about.
type ModelInfo struct {
	// ID is the model identifier used in the endpoint path
	ID string

	// Name is the human-readable display name
	Name string

	// Capability is the output the model is used for
	Capability Capability

	// Description is a brief explanation shown in `config show`
	Description string
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

const (
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-2.5-flash-image"
)

// Models is the registry of known models keyed by ID.
var Models = map[string]ModelInfo{
	DefaultTextModel: {
		ID:          DefaultTextModel,
		Name:        "Gemini 3 Flash (preview)",
		Capability:  CapabilityText,
		Description: "Default chat model",
	},
	"gemini-2.5-flash": {
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Capability:  CapabilityText,
		Description: "Fast general model",
	},
	"gemini-2.5-pro": {
		ID:          "gemini-2.5-pro",
		Name:        "Gemini 2.5 Pro",
		Capability:  CapabilityText,
		Description: "Stronger reasoning, slower",
	},
	DefaultImageModel: {
		ID:          DefaultImageModel,
		Name:        "Gemini 2.5 Flash Image",
		Capability:  CapabilityImage,
		Description: "Default image generation model",
	},
}

// GetModelInfo looks up a model by ID, ignoring case and surrounding space.
func GetModelInfo(id string) (ModelInfo, bool) {
	info, ok := Models[strings.ToLower(strings.TrimSpace(id))]
	return info, ok
}

// DisplayName returns the registry name for id, or id itself when unknown.
func DisplayName(id string) string {
	if info, ok := GetModelInfo(id); ok {
		return info.Name
	}
	return id
}

// ModelsWith returns the known models with the given capability, sorted by ID.
func ModelsWith(c Capability) []ModelInfo {
	var out []ModelInfo
	for _, info := range Models {
		if info.Capability == c {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
