// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/cosmos-tui/internal/conversation"
	"github.com/jeranaias/cosmos-tui/internal/speech"
)

// speechPollInterval is how often --speak checks for the end of playback.
const speechPollInterval = 100 * time.Millisecond

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		speak  bool
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send one prompt and print the reply",
		Long: `Send one prompt and print the reply.

On a color terminal the reply is rendered as markdown. When output is piped,
or NO_COLOR is set, the raw markdown is printed. Image replies are saved as
image-<id>.png in --out-dir.`,
		Example: `  cosmos ask "explain goroutines in one paragraph"
  cosmos ask generate image of a lighthouse at dusk --out-dir ~/Pictures
  cosmos ask --speak "tell me a short joke"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if strings.TrimSpace(prompt) == "" {
				return errors.New("prompt is empty")
			}

			a, err := opts.bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			var speaker conversation.Speaker
			if speak {
				speaker = a.synth
			}
			machine := conversation.New(a.backend, speaker)

			d, ok := machine.Submit(prompt)
			if !ok {
				return errors.New("prompt was not accepted")
			}
			out := d.Run(cmd.Context())
			machine.Complete(out)

			reply, _ := machine.Last()
			if err := printReply(cmd.OutOrStdout(), reply, outDir); err != nil {
				return err
			}
			if out.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "cosmos: %v\n", out.Err)
				return errRequestFailed
			}

			if speak {
				waitForSpeech(cmd.Context(), a.synth)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&speak, "speak", false, "read the reply aloud and wait for playback")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for image replies")
	return cmd
}

// waitForSpeech blocks until synth finishes or ctx is done. Playback is
// cut off on cancellation.
func waitForSpeech(ctx context.Context, synth speech.Synthesizer) {
	ticker := time.NewTicker(speechPollInterval)
	defer ticker.Stop()

	for synth.Speaking() {
		select {
		case <-ctx.Done():
			synth.Cancel()
			return
		case <-ticker.C:
		}
	}
}
