// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the UI and CLI layers:
// display-width aware truncation, human-readable sizes, and crash-safe
// file writes used when saving configuration and generated images.
//
//	w := util.StringWidth("日本")          // 4
//	s := util.TruncateWidth(reply, 40)     // fits 40 terminal columns
//	err := util.AtomicWriteFile(path, png, 0644)
package util
