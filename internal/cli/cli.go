// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/cosmos-tui/internal/config"
	"github.com/jeranaias/cosmos-tui/internal/gemini"
	"github.com/jeranaias/cosmos-tui/internal/logging"
	"github.com/jeranaias/cosmos-tui/internal/speech"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// errRequestFailed marks a run whose request failed after the failure text
// was already shown. Execute exits non-zero without printing it again.
var errRequestFailed = errors.New("request failed")

// =============================================================================
// ROOT COMMAND
// =============================================================================

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	textModel  string
	imageModel string
	backend    string
	noSpeech   bool
}

// NewRootCmd builds the cosmos command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cosmos",
		Short: "Chat with Gemini from the terminal",
		Long: `Cosmos is a terminal chat client for Google Gemini.

Run without arguments for the full-screen chat. Prompts that start with
"generate image" go to the image model; every other prompt goes to the text
model. Replies can be read aloud when a
speech engine such as espeak-ng is installed.

The API key is read from GEMINI_API_KEY or the config file.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			return runTUI(cmd.Context(), opts, a)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.cosmos/config.toml)")
	flags.StringVar(&opts.textModel, "model", "", "text model for this run")
	flags.StringVar(&opts.imageModel, "image-model", "", "image model for this run")
	flags.StringVar(&opts.backend, "backend", "", `transport: "http" or "sdk"`)
	flags.BoolVar(&opts.noSpeech, "no-speech", false, "disable speech for this run")

	cmd.AddCommand(
		newAskCmd(opts),
		newReplCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRequestFailed) {
			fmt.Fprintf(os.Stderr, "cosmos: %v\n", err)
		}
		return 1
	}
	return 0
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// app is everything a command needs once config and logging are set up.
type app struct {
	cfg        *config.Config
	cfgPath    string
	backend    gemini.Backend
	synth      speech.Synthesizer
	recognizer speech.Recognizer
	logCloser  io.Closer
}

// resolveConfigPath returns the --config flag or the default location.
func (o *rootOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.Path()
}

// loadConfig reads the config file and applies flag overrides. A broken
// file is reported on warn and replaced by defaults.
func (o *rootOptions) loadConfig(warn io.Writer) (*config.Config, string, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, "", err
	}

	cfg, loadErr := config.LoadOrDefault(path)
	if loadErr != nil {
		fmt.Fprintf(warn, "warning: %v (using defaults)\n", loadErr)
	}

	o.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyFlags copies explicitly set flags over cfg.
func (o *rootOptions) applyFlags(cfg *config.Config) {
	if o.textModel != "" {
		cfg.Gemini.TextModel = o.textModel
	}
	if o.imageModel != "" {
		cfg.Gemini.ImageModel = o.imageModel
	}
	if o.backend != "" {
		cfg.Gemini.Backend = o.backend
	}
	if o.noSpeech {
		cfg.Speech.Enabled = false
	}
}

// bootstrap loads config, starts file logging and builds the backend and
// speech engines.
func (o *rootOptions) bootstrap(warn io.Writer) (*app, error) {
	cfg, path, err := o.loadConfig(warn)
	if err != nil {
		return nil, err
	}

	_, closer, err := logging.Init(cfg.Logging)
	if err != nil {
		fmt.Fprintf(warn, "warning: logging disabled: %v\n", err)
	}

	slog.Info("cosmos_start",
		"version", Version,
		"config", path,
		"backend", cfg.Gemini.Backend,
		"text_model", cfg.Gemini.TextModel,
		"image_model", cfg.Gemini.ImageModel,
	)

	synth, rec := speech.Detect(cfg.SpeechSettings())
	return &app{
		cfg:        cfg,
		cfgPath:    path,
		backend:    gemini.NewBackend(cfg.Gemini.Backend, cfg.ClientConfig()),
		synth:      synth,
		recognizer: rec,
		logCloser:  closer,
	}, nil
}

// Close stops speech and flushes the log file.
func (a *app) Close() {
	a.synth.Cancel()
	slog.Info("cosmos_exit")
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}
