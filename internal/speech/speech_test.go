// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// FAKE LAUNCHER
// =============================================================================

type launchCall struct {
	name string
	args []string
	ctx  context.Context
	// prevDone records whether the previous call's context was already
	// cancelled when this call started.
	prevDone bool
}

type fakeLauncher struct {
	mu     sync.Mutex
	calls  []launchCall
	stdout string
	err    error
}

func (f *fakeLauncher) launch(ctx context.Context, name string, args []string, capture bool) (*process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	call := launchCall{name: name, args: args, ctx: ctx}
	if n := len(f.calls); n > 0 {
		call.prevDone = f.calls[n-1].ctx.Err() != nil
	}
	f.calls = append(f.calls, call)

	p := &process{Wait: func() error {
		<-ctx.Done()
		return ctx.Err()
	}}
	if capture {
		pr, pw := io.Pipe()
		out := f.stdout
		go func() {
			if out != "" {
				_, _ = io.WriteString(pw, out)
			}
			<-ctx.Done()
			pw.Close()
		}()
		p.Stdout = pr
	}
	return p, nil
}

func (f *fakeLauncher) snapshot() []launchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]launchCall(nil), f.calls...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

// =============================================================================
// SYNTHESIZER TESTS
// =============================================================================

func TestCommandSynthesizer_SpeakSanitizes(t *testing.T) {
	fl := &fakeLauncher{}
	s := NewCommandSynthesizer("/usr/bin/espeak-ng", nil, DefaultVoice())
	s.launch = fl.launch

	s.Speak("**Hi** there")

	calls := fl.snapshot()
	if len(calls) != 1 {
		t.Fatalf("launch calls = %d, want 1", len(calls))
	}
	want := []string{"-s", "175", "-p", "50", "-v", "en-us", "Hi there"}
	if len(calls[0].args) != len(want) {
		t.Fatalf("args = %v, want %v", calls[0].args, want)
	}
	for i := range want {
		if calls[0].args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, calls[0].args[i], want[i])
		}
	}
	if !s.Speaking() {
		t.Error("Speaking() should be true while the process runs")
	}
	s.Cancel()
}

func TestCommandSynthesizer_CancelThenSpeak(t *testing.T) {
	fl := &fakeLauncher{}
	s := NewCommandSynthesizer("espeak", nil, DefaultVoice())
	s.launch = fl.launch

	s.Speak("first")
	s.Speak("second")

	calls := fl.snapshot()
	if len(calls) != 2 {
		t.Fatalf("launch calls = %d, want 2", len(calls))
	}
	if !calls[1].prevDone {
		t.Error("first utterance was not cancelled before the second started")
	}
	if calls[1].ctx.Err() != nil {
		t.Error("second utterance should still be playing")
	}

	s.Cancel()
	if s.Speaking() {
		t.Error("Speaking() should be false after Cancel")
	}
	if calls[1].ctx.Err() == nil {
		t.Error("Cancel did not stop the utterance")
	}
}

func TestCommandSynthesizer_EmptyTextOnlyCancels(t *testing.T) {
	fl := &fakeLauncher{}
	s := NewCommandSynthesizer("espeak", nil, DefaultVoice())
	s.launch = fl.launch

	s.Speak("hello")
	s.Speak("```\ncode only\n```")

	calls := fl.snapshot()
	if len(calls) != 1 {
		t.Fatalf("launch calls = %d, want 1", len(calls))
	}
	if calls[0].ctx.Err() == nil {
		t.Error("previous utterance should be cancelled")
	}
}

func TestCommandSynthesizer_LaunchFailureIsSilent(t *testing.T) {
	fl := &fakeLauncher{err: errors.New("exec format error")}
	s := NewCommandSynthesizer("espeak", nil, DefaultVoice())
	s.launch = fl.launch

	s.Speak("hello")
	if s.Speaking() {
		t.Error("Speaking() should be false when launch failed")
	}
}

func TestCommandSynthesizer_Args(t *testing.T) {
	v := DefaultVoice()
	tests := []struct {
		path  string
		extra []string
		want  []string
	}{
		{"/usr/bin/say", nil, []string{"-r", "175", "hi"}},
		{"/usr/bin/spd-say", nil, []string{"-w", "-r", "0", "-p", "0", "-l", "en", "hi"}},
		{"/opt/tts", []string{"--voice", "amy"}, []string{"--voice", "amy", "hi"}},
		{"/opt/tts", nil, []string{"hi"}},
	}
	for _, tc := range tests {
		s := NewCommandSynthesizer(tc.path, tc.extra, v)
		got := s.args("hi")
		if len(got) != len(tc.want) {
			t.Errorf("%s args = %v, want %v", tc.path, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s args = %v, want %v", tc.path, got, tc.want)
				break
			}
		}
	}
}

// =============================================================================
// RECOGNIZER TESTS
// =============================================================================

func TestCommandRecognizer_SingleResult(t *testing.T) {
	fl := &fakeLauncher{stdout: "\n  what is go  \nsecond line\n"}
	r := NewCommandRecognizer("/usr/local/bin/listen", []string{"--once"})
	r.launch = fl.launch

	sess, err := r.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var got []string
	for text := range sess.Results() {
		got = append(got, text)
	}
	if len(got) != 1 || got[0] != "what is go" {
		t.Errorf("results = %q, want exactly [\"what is go\"]", got)
	}

	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end after the first result")
	}
	if sess.Active() {
		t.Error("Active() should be false after Done")
	}
}

func TestCommandRecognizer_StopEndsWithoutResult(t *testing.T) {
	fl := &fakeLauncher{}
	r := NewCommandRecognizer("listen", nil)
	r.launch = fl.launch

	sess, err := r.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !sess.Active() {
		t.Fatal("session should be active before Stop")
	}

	sess.Stop()
	waitFor(t, func() bool { return !sess.Active() })

	if _, ok := <-sess.Results(); ok {
		t.Error("stopped session should not yield a result")
	}
}

func TestCommandRecognizer_StartError(t *testing.T) {
	fl := &fakeLauncher{err: errors.New("no such file")}
	r := NewCommandRecognizer("listen", nil)
	r.launch = fl.launch

	if _, err := r.Start(context.Background()); err == nil {
		t.Error("Start() should fail when the engine cannot launch")
	}
}

// =============================================================================
// DETECTION TESTS
// =============================================================================

func TestDetect(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	available := map[string]bool{"espeak": true, "whisper-once": true}
	lookPath = func(name string) (string, error) {
		if available[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	t.Run("disabled", func(t *testing.T) {
		synth, rec := Detect(Settings{Enabled: false})
		if synth.Supported() || rec.Supported() {
			t.Error("disabled speech should be unsupported")
		}
	})

	t.Run("auto detects tts, no stt", func(t *testing.T) {
		synth, rec := Detect(Settings{Enabled: true})
		if !synth.Supported() {
			t.Error("espeak should be detected")
		}
		if rec.Supported() {
			t.Error("capture needs an explicit command")
		}
	})

	t.Run("configured commands", func(t *testing.T) {
		synth, rec := Detect(Settings{Enabled: true, TTSCommand: "missing-tts", STTCommand: "whisper-once --lang en"})
		if synth.Supported() {
			t.Error("missing TTS command should fall back to no-op")
		}
		if !rec.Supported() {
			t.Error("configured STT command should be supported")
		}
	})

	t.Run("speech-dispatcher fallback", func(t *testing.T) {
		available = map[string]bool{"spd-say": true}
		synth, _ := Detect(Settings{Enabled: true})
		cs, ok := synth.(*CommandSynthesizer)
		if !ok {
			t.Fatalf("synth = %T, want *CommandSynthesizer", synth)
		}
		if cs.path != "/usr/bin/spd-say" {
			t.Errorf("path = %q, want spd-say", cs.path)
		}
	})
}

func TestNoopCapabilities(t *testing.T) {
	var synth Synthesizer = NoopSynthesizer{}
	synth.Speak("hello")
	synth.Cancel()
	if synth.Speaking() {
		t.Error("noop synthesizer never speaks")
	}

	sess, err := NoopRecognizer{}.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if sess.Active() {
		t.Error("noop session should already be done")
	}
	sess.Stop()
}
