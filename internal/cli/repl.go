// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/cosmos-tui/internal/config"
	"github.com/jeranaias/cosmos-tui/internal/conversation"
	"github.com/jeranaias/cosmos-tui/internal/util"
)

const (
	replPrompt      = "you> "
	historyFileName = "history"
	maxHistoryLines = 500
)

const replHelp = `Type a prompt and press enter. Prompts starting with "generate image" are
sent to the image model and the result is saved in the current directory.

  /help   show this help
  /quit   leave (ctrl+d works too)
`

func newReplCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Chat line by line without the full-screen interface",
		Long: `Chat line by line without the full-screen interface.

Line editing and history (arrow keys, ctrl+r) are provided by liner. History
is kept in ~/.cosmos/history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			historyPath := ""
			if dir, err := config.Dir(); err == nil {
				historyPath = filepath.Join(dir, historyFileName)
			}
			r := newLineReader(historyPath)
			defer r.Close()

			return runREPL(cmd, conversation.New(a.backend, a.synth), r)
		},
	}
}

// promptReader is the part of lineReader the loop needs.
type promptReader interface {
	Read(prompt string) (string, error)
}

func runREPL(cmd *cobra.Command, machine *conversation.Machine, r promptReader) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Cosmos ChatBoat. /help for commands, /quit to leave.")

	for {
		input, err := r.Read(replPrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprint(out, replHelp)
			continue
		}

		reply, ok := machine.SubmitAndWait(cmd.Context(), input)
		if !ok {
			continue
		}
		if err := printReply(out, reply, "."); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cosmos: %v\n", err)
		}
		if cmd.Context().Err() != nil {
			return nil
		}
	}
}

// =============================================================================
// LINE READER
// =============================================================================

// lineReader wraps liner with a persistent history file.
type lineReader struct {
	line        *liner.State
	historyPath string
}

func newLineReader(historyPath string) *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &lineReader{line: line, historyPath: historyPath}
	r.loadHistory()
	return r
}

func (r *lineReader) loadHistory() {
	if r.historyPath == "" {
		return
	}
	f, err := os.Open(r.historyPath)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := r.line.ReadHistory(f); err != nil {
		slog.Debug("repl_history_read_failed", "error", err)
	}
}

// Read prompts for one line and records it in history.
func (r *lineReader) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history (owner-only) and restores the terminal.
func (r *lineReader) Close() error {
	defer r.line.Close()
	if r.historyPath == "" {
		return nil
	}

	var buf bytes.Buffer
	if _, err := r.line.WriteHistory(&buf); err != nil {
		return err
	}
	data := trimHistory(buf.Bytes(), maxHistoryLines)
	if err := util.AtomicWriteFileWithDir(r.historyPath, data, 0600, 0700); err != nil {
		slog.Warn("repl_history_save_failed", "path", r.historyPath, "error", err)
		return err
	}
	return nil
}

// trimHistory keeps the last limit lines.
func trimHistory(data []byte, limit int) []byte {
	lines := bytes.SplitAfter(data, []byte("\n"))
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	if len(lines) <= limit {
		return data
	}
	return bytes.Join(lines[len(lines)-limit:], nil)
}
