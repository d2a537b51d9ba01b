// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// CommandRecognizer captures speech by running an external recognizer that
// prints what it heard on stdout.
type CommandRecognizer struct {
	path   string
	args   []string
	launch launchFunc
}

// NewCommandRecognizer creates a recognizer around the program at path.
func NewCommandRecognizer(path string, args []string) *CommandRecognizer {
	return &CommandRecognizer{path: path, args: args, launch: execLaunch}
}

func (r *CommandRecognizer) Supported() bool { return true }

// Start launches one recognition pass. The first non-empty line the program
// prints is the result; the program is then stopped.
func (r *CommandRecognizer) Start(ctx context.Context) (*Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	proc, err := r.launch(ctx, r.path, r.args, true)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start recognizer: %w", err)
	}

	sess := newSession(cancel)
	go r.run(sess, proc, cancel)
	return sess, nil
}

func (r *CommandRecognizer) run(sess *Session, proc *process, cancel context.CancelFunc) {
	defer sess.finish()
	defer cancel()

	if proc.Stdout != nil {
		scanner := bufio.NewScanner(proc.Stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			sess.deliver(line)
			cancel()
			break
		}
		// Unblock the writer so Wait can return.
		_, _ = io.Copy(io.Discard, proc.Stdout)
	}

	if err := proc.Wait(); err != nil {
		slog.Debug("speech_recognizer_exit", "error", err)
	}
}
