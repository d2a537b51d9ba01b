// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/util"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown styles content with glamour when w is a color terminal.
// Piped output gets the markdown unchanged. Rendering failures also fall
// back to the raw text.
func renderMarkdown(w io.Writer, content string) string {
	if !colorsEnabled(w) {
		return content
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth(w)-2),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// REPLY OUTPUT
// =============================================================================

// printReply writes a reply to w. Image replies are saved under outDir and
// reported by path.
func printReply(w io.Writer, reply model.Message, outDir string) error {
	if reply.IsImage() {
		path, size, err := saveImage(outDir, reply)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Saved image to %s (%s)\n", path, util.FormatBytes(size))
		return err
	}

	out := renderMarkdown(w, reply.Text())
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// saveImage writes the decoded image as image-<id>.png.
func saveImage(dir string, msg model.Message) (string, int, error) {
	data, err := msg.ImageBytes()
	if err != nil {
		return "", 0, fmt.Errorf("decode image: %w", err)
	}
	path := filepath.Join(dir, "image-"+msg.ID()+".png")
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", 0, fmt.Errorf("save image: %w", err)
	}
	return path, len(data), nil
}
