// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package speech

import "os/exec"

// setProcessGroup keeps the default cancellation, which kills the child.
func setProcessGroup(cmd *exec.Cmd) {}
