// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import "strings"

// ImagePrefix is the case-insensitive prompt prefix that selects RouteImage.
const ImagePrefix = "generate image"

// Route is the endpoint a prompt is sent to.
type Route int

const (
	RouteText Route = iota
	RouteImage
)

// String returns the route name used in logs.
func (r Route) String() string {
	switch r {
	case RouteImage:
		return "image"
	default:
		return "text"
	}
}

// RoutingDecision is the result of Classify.
type RoutingDecision struct {
	Route  Route
	Reason string
}

// Classify picks the route for prompt.
func Classify(prompt string) RoutingDecision {
	if strings.HasPrefix(strings.ToLower(prompt), ImagePrefix) {
		return RoutingDecision{Route: RouteImage, Reason: "prompt starts with " + ImagePrefix}
	}
	return RoutingDecision{Route: RouteText, Reason: "default"}
}
