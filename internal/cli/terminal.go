// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for wrapping
	MinTerminalWidth = 40
)

// fileDescriptor returns the descriptor behind w, if it has one.
func fileDescriptor(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	fd, ok := fileDescriptor(w)
	return ok && term.IsTerminal(fd)
}

// colorsEnabled reports whether styled output should go to w. NO_COLOR
// (https://no-color.org/) always wins.
func colorsEnabled(w io.Writer) bool {
	if termenv.EnvNoColor() || !isTerminal(w) {
		return false
	}
	return termenv.NewOutput(w).ColorProfile() != termenv.Ascii
}

// terminalWidth returns the width of w, clamped to MinTerminalWidth, or
// DefaultTerminalWidth when it cannot be determined.
func terminalWidth(w io.Writer) int {
	fd, ok := fileDescriptor(w)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// applyTheme pins lipgloss to a background for "dark" or "light". "auto"
// leaves detection to lipgloss.
func applyTheme(theme string) {
	switch strings.ToLower(theme) {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}
