// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// CommandSynthesizer speaks by running a TTS program per utterance.
// Starting a new utterance kills the previous process first.
type CommandSynthesizer struct {
	path  string
	extra []string
	voice Voice

	launch launchFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// NewCommandSynthesizer creates a synthesizer around the program at path.
// extra arguments go before the utterance for custom commands.
func NewCommandSynthesizer(path string, extra []string, voice Voice) *CommandSynthesizer {
	return &CommandSynthesizer{
		path:   path,
		extra:  extra,
		voice:  voice,
		launch: execLaunch,
	}
}

func (s *CommandSynthesizer) Supported() bool { return true }

// Speak plays text after stripping markdown. Empty text only cancels.
func (s *CommandSynthesizer) Speak(text string) {
	clean := norm.NFC.String(ToSpeechText(text))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	if clean == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	proc, err := s.launch(ctx, s.path, s.args(clean), false)
	if err != nil {
		cancel()
		slog.Warn("speech_speak_failed", "engine", engineName(s.path), "error", err)
		return
	}

	s.gen++
	gen := s.gen
	s.cancel = cancel

	go func() {
		_ = proc.Wait()
		cancel()
		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
	}()
}

// Cancel stops the current utterance.
func (s *CommandSynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Speaking reports whether an utterance process is still running.
func (s *CommandSynthesizer) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *CommandSynthesizer) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// args builds the command line for the detected engine.
func (s *CommandSynthesizer) args(text string) []string {
	if len(s.extra) > 0 {
		return append(append([]string{}, s.extra...), text)
	}

	switch engineName(s.path) {
	case "espeak", "espeak-ng":
		return []string{
			"-s", strconv.Itoa(s.voice.Rate),
			"-p", strconv.Itoa(s.voice.Pitch),
			"-v", strings.ToLower(s.voice.Locale),
			text,
		}
	case "say":
		// say has no pitch flag; the locale follows the system voice.
		return []string{"-r", strconv.Itoa(s.voice.Rate), text}
	case "spd-say":
		// -w keeps the process alive until the utterance ends, so Cancel
		// can stop it. Rate and pitch are offsets in -100..100.
		return []string{
			"-w",
			"-r", strconv.Itoa(clampOffset((s.voice.Rate - 175) * 100 / 175)),
			"-p", strconv.Itoa(clampOffset((s.voice.Pitch - 50) * 2)),
			"-l", strings.ToLower(strings.SplitN(s.voice.Locale, "-", 2)[0]),
			text,
		}
	default:
		return []string{text}
	}
}

func clampOffset(v int) int {
	if v < -100 {
		return -100
	}
	if v > 100 {
		return 100
	}
	return v
}
