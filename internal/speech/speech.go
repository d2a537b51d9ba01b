// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// CAPABILITY INTERFACES
// =============================================================================

// Synthesizer plays text aloud.
type Synthesizer interface {
	// Supported reports whether a speech engine is available.
	Supported() bool

	// Speak sanitizes text, cancels the current utterance and plays the new one.
	// It returns once playback has started.
	Speak(text string)

	// Cancel stops the current utterance, if any.
	Cancel()

	// Speaking reports whether an utterance is playing.
	Speaking() bool
}

// Recognizer captures one spoken utterance per Session.
type Recognizer interface {
	// Supported reports whether a recognition engine is available.
	Supported() bool

	// Start begins a single-result listening session.
	Start(ctx context.Context) (*Session, error)
}

// =============================================================================
// SETTINGS
// =============================================================================

// Voice holds the fixed playback parameters.
type Voice struct {
	Rate   int    // words per minute
	Pitch  int    // 0-99
	Locale string // BCP 47, e.g. en-US
}

// DefaultVoice returns the playback parameters used when none are configured.
func DefaultVoice() Voice {
	return Voice{Rate: 175, Pitch: 50, Locale: "en-US"}
}

// Settings selects and configures the speech engines.
type Settings struct {
	Enabled bool

	// TTSCommand overrides engine detection. The utterance is appended as the
	// last argument.
	TTSCommand string

	// STTCommand runs one recognition pass and prints the utterance on stdout.
	// Capture is unsupported when empty.
	STTCommand string

	Voice Voice
}

// ttsCandidates are tried in order when no TTS command is configured.
var ttsCandidates = []string{"espeak-ng", "espeak", "say", "spd-say"}

var lookPath = exec.LookPath

// Detect returns the best available synthesizer and recognizer for s.
// Missing engines come back as no-ops.
func Detect(s Settings) (Synthesizer, Recognizer) {
	if !s.Enabled {
		slog.Debug("speech_disabled")
		return NoopSynthesizer{}, NoopRecognizer{}
	}
	if s.Voice == (Voice{}) {
		s.Voice = DefaultVoice()
	}

	var synth Synthesizer = NoopSynthesizer{}
	if path, extra, ok := resolveTTS(s.TTSCommand); ok {
		synth = NewCommandSynthesizer(path, extra, s.Voice)
	}

	var rec Recognizer = NoopRecognizer{}
	if fields := strings.Fields(s.STTCommand); len(fields) > 0 {
		if path, err := lookPath(fields[0]); err == nil {
			rec = NewCommandRecognizer(path, fields[1:])
		} else {
			slog.Warn("speech_stt_not_found", "command", fields[0], "error", err)
		}
	}

	slog.Info("speech_detected",
		"playback", synth.Supported(),
		"capture", rec.Supported(),
	)
	return synth, rec
}

func resolveTTS(command string) (path string, extra []string, ok bool) {
	if fields := strings.Fields(command); len(fields) > 0 {
		p, err := lookPath(fields[0])
		if err != nil {
			slog.Warn("speech_tts_not_found", "command", fields[0], "error", err)
			return "", nil, false
		}
		return p, fields[1:], true
	}
	for _, name := range ttsCandidates {
		if p, err := lookPath(name); err == nil {
			return p, nil, true
		}
	}
	return "", nil, false
}

// =============================================================================
// NO-OP CAPABILITIES
// =============================================================================

// NoopSynthesizer stands in when no TTS engine exists.
type NoopSynthesizer struct{}

func (NoopSynthesizer) Supported() bool { return false }
func (NoopSynthesizer) Speak(string)    {}
func (NoopSynthesizer) Cancel()         {}
func (NoopSynthesizer) Speaking() bool  { return false }

// NoopRecognizer stands in when no STT engine exists.
type NoopRecognizer struct{}

func (NoopRecognizer) Supported() bool { return false }

// Start returns a session that has already ended without a result.
func (NoopRecognizer) Start(context.Context) (*Session, error) {
	s := newSession(func() {})
	s.finish()
	return s, nil
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one listening attempt. It delivers at most one result and
// becomes inactive on the first result, on Stop, or when the engine exits.
type Session struct {
	results chan string
	done    chan struct{}
	cancel  context.CancelFunc

	once sync.Once
	mu   sync.Mutex
	sent bool
}

func newSession(cancel context.CancelFunc) *Session {
	return &Session{
		results: make(chan string, 1),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
}

// Results yields the recognized utterance. It receives at most one value and
// is closed when the session ends.
func (s *Session) Results() <-chan string { return s.results }

// Done is closed when recognition has ended for any reason.
func (s *Session) Done() <-chan struct{} { return s.done }

// Active reports whether the session is still listening.
func (s *Session) Active() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Stop ends the session early.
func (s *Session) Stop() {
	s.cancel()
}

// deliver publishes text as the single result. Later calls are ignored.
func (s *Session) deliver(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent {
		return false
	}
	s.sent = true
	s.results <- text
	return true
}

func (s *Session) finish() {
	s.once.Do(func() {
		close(s.results)
		close(s.done)
	})
}

// =============================================================================
// PROCESS LAUNCHING
// =============================================================================

type process struct {
	Stdout io.Reader
	Wait   func() error
}

// processWaitDelay bounds how long Wait lingers on output held open by
// descendants that escaped the process group.
const processWaitDelay = 500 * time.Millisecond

// launchFunc starts name with args, killing it when ctx is cancelled.
type launchFunc func(ctx context.Context, name string, args []string, captureStdout bool) (*process, error)

// execLaunch runs the engine in its own process group so cancellation also
// reaches the children of wrapper scripts. Stdout is delivered through a
// pipe that closes once the command has been reaped.
func execLaunch(ctx context.Context, name string, args []string, captureStdout bool) (*process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	setProcessGroup(cmd)
	cmd.WaitDelay = processWaitDelay

	p := &process{}
	var pw *io.PipeWriter
	if captureStdout {
		var pr *io.PipeReader
		pr, pw = io.Pipe()
		cmd.Stdout = pw
		p.Stdout = pr
	}
	if err := cmd.Start(); err != nil {
		if pw != nil {
			pw.Close()
		}
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		if pw != nil {
			pw.Close()
		}
		done <- err
	}()
	p.Wait = func() error { return <-done }
	return p, nil
}

func engineName(path string) string {
	return strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".exe")
}
