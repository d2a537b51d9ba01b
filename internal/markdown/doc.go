// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown parses reply text into a flat list of render blocks.
//
// Parsing is done by goldmark with the GFM extension. The resulting tree is
// walked into Block values that the UI layer can style without knowing
// anything about the markdown syntax:
//
//	blocks := markdown.Parse(reply)
//	for _, b := range blocks {
//	    switch b.Kind {
//	    case markdown.BlockHeading:
//	    case markdown.BlockCode:
//	    }
//	}
//
// Inline formatting is flattened into Spans, each carrying a Style bitmask,
// so nested emphasis like ***both*** needs no recursion to render.
package markdown
