// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cosmos-tui/internal/config"
	"github.com/jeranaias/cosmos-tui/internal/conversation"
)

// =============================================================================
// HELPERS
// =============================================================================

// isolate points HOME and the config env at a temp dir so nothing touches the
// real ~/.cosmos.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{
		"GEMINI_API_KEY", "COSMOS_MODEL", "COSMOS_IMAGE_MODEL", "COSMOS_BACKEND",
		"COSMOS_LOG_LEVEL", "COSMOS_TTS", "COSMOS_STT",
	} {
		t.Setenv(name, "")
	}
	return home
}

// writeConfig writes a config pointing at baseURL with speech off and logs
// in dir.
func writeConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`[gemini]
base_url = %q

[speech]
enabled = false

[logging]
path = %q
`, baseURL, filepath.Join(dir, "logs", "cosmos.log"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// geminiServer answers every generateContent call with body.
func geminiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// =============================================================================
// COMMAND TREE
// =============================================================================

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{
		{"ask"},
		{"repl"},
		{"config", "path"},
		{"config", "show"},
		{"config", "init"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, "finding %v", path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	for _, flag := range []string{"config", "model", "image-model", "backend", "no-speech"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing --%s", flag)
	}
}

func TestAskRequiresPrompt(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "ask")
	assert.Error(t, err)
}

func TestInvalidBackendFlag(t *testing.T) {
	home := isolate(t)
	cfgPath := writeConfig(t, home, "http://127.0.0.1:1")

	_, _, err := run(t, "--config", cfgPath, "--backend", "grpc", "ask", "hello")
	var verrs config.ValidateErrors
	require.True(t, errors.As(err, &verrs), "error = %v", err)
	assert.Equal(t, "gemini.backend", verrs[0].Field)
}

// =============================================================================
// ASK
// =============================================================================

func TestAskPrintsRawMarkdownWhenPiped(t *testing.T) {
	home := isolate(t)
	srv := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"# Title\n\nSome **bold** text"}]}}]}`)
	cfgPath := writeConfig(t, home, srv.URL)

	out, _, err := run(t, "--config", cfgPath, "ask", "say", "hello")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nSome **bold** text\n", out)
}

func TestAskSavesImageReply(t *testing.T) {
	home := isolate(t)
	srv := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"iVBORw0KGgo="}}]}}]}`)
	cfgPath := writeConfig(t, home, srv.URL)
	outDir := t.TempDir()

	out, _, err := run(t, "--config", cfgPath, "ask", "--out-dir", outDir, "generate image of a cat")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved image to ")

	matches, err := filepath.Glob(filepath.Join(outDir, "image-*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, data)
}

func TestAskFailurePrintsPlaceholder(t *testing.T) {
	home := isolate(t)
	srv := geminiServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`)
	cfgPath := writeConfig(t, home, srv.URL)

	out, stderr, err := run(t, "--config", cfgPath, "ask", "hello")
	assert.ErrorIs(t, err, errRequestFailed)
	assert.Equal(t, conversation.FailureText+"\n", out)
	assert.Contains(t, stderr, "boom")
}

func TestAskLogsToConfiguredFile(t *testing.T) {
	home := isolate(t)
	srv := geminiServer(t, http.StatusOK, `{"candidates":[]}`)
	cfgPath := writeConfig(t, home, srv.URL)

	out, _, err := run(t, "--config", cfgPath, "ask", "hello")
	require.NoError(t, err)
	assert.Equal(t, "No response\n", out)

	logData, err := os.ReadFile(filepath.Join(home, "logs", "cosmos.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "cosmos_start")
	assert.Contains(t, string(logData), "conversation_dispatch")
}

// =============================================================================
// CONFIG COMMANDS
// =============================================================================

func TestConfigPath(t *testing.T) {
	home := isolate(t)

	out, _, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cosmos", "config.toml")+"\n", out)

	out, _, err = run(t, "--config", "/tmp/elsewhere.toml", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.toml\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "cfg", "config.toml")

	out, _, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, _, err = run(t, "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = run(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	t.Setenv("GEMINI_API_KEY", "secret-key-abcd")
	out, _, err = run(t, "--config", path, "--model", "flag-model", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "****abcd")
	assert.NotContains(t, out, "secret-key")
	assert.Contains(t, out, `text_model = "flag-model"`)
}

func TestConfigShowWarnsOnBadFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[gemini\n"), 0600))

	out, stderr, err := run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stderr, "using defaults")
	assert.Contains(t, out, "[gemini]")
}

// =============================================================================
// REPL
// =============================================================================

type scriptedReader struct {
	lines []string
}

func (r *scriptedReader) Read(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

type echoGenerator struct{ prompts []string }

func (g *echoGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return "echo: " + prompt, nil
}

func (g *echoGenerator) GenerateImage(context.Context, string) (string, error) {
	return "", errors.New("no images here")
}

func replCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetContext(context.Background())
	return cmd
}

func TestREPLLoop(t *testing.T) {
	var out bytes.Buffer
	gen := &echoGenerator{}
	machine := conversation.New(gen, nil)
	r := &scriptedReader{lines: []string{"", "   ", "/help", "hello there", "/quit", "never sent"}}

	require.NoError(t, runREPL(replCmd(&out), machine, r))

	assert.Equal(t, []string{"hello there"}, gen.prompts)
	assert.Contains(t, out.String(), "/quit   leave")
	assert.Contains(t, out.String(), "echo: hello there\n")
	assert.Len(t, machine.Transcript(), 2)
}

func TestREPLFailureContinues(t *testing.T) {
	var out bytes.Buffer
	machine := conversation.New(&echoGenerator{}, nil)
	r := &scriptedReader{lines: []string{"generate image of a dog", "still here"}}

	require.NoError(t, runREPL(replCmd(&out), machine, r))

	assert.Contains(t, out.String(), conversation.FailureText)
	assert.Contains(t, out.String(), "echo: still here")
}

type abortingReader struct{}

func (abortingReader) Read(string) (string, error) { return "", liner.ErrPromptAborted }

func TestREPLCtrlCExits(t *testing.T) {
	machine := conversation.New(&echoGenerator{}, nil)
	assert.NoError(t, runREPL(replCmd(io.Discard), machine, abortingReader{}))
}

func TestTrimHistory(t *testing.T) {
	data := []byte("one\ntwo\nthree\nfour\n")

	assert.Equal(t, data, trimHistory(data, 10))
	assert.Equal(t, "three\nfour\n", string(trimHistory(data, 2)))
	assert.Empty(t, trimHistory(nil, 2))
}

// =============================================================================
// OUTPUT
// =============================================================================

func TestRenderMarkdownPlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	src := "## Heading\n\n- item"
	assert.Equal(t, src, renderMarkdown(&buf, src))
	assert.False(t, colorsEnabled(&buf))
	assert.Equal(t, DefaultTerminalWidth, terminalWidth(&buf))
}

func TestNoColorDisablesStyling(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorsEnabled(os.Stdout))
}

func TestApplyFlagsOverridesReload(t *testing.T) {
	opts := &rootOptions{textModel: "pinned", noSpeech: true}
	cfg := config.Default()
	cfg.Speech.Enabled = true

	opts.applyFlags(cfg)

	assert.Equal(t, "pinned", cfg.Gemini.TextModel)
	assert.Equal(t, config.Default().Gemini.ImageModel, cfg.Gemini.ImageModel)
	assert.False(t, cfg.Speech.Enabled)
	assert.True(t, strings.HasPrefix(cfg.Gemini.BaseURL, "https://"))
}

func TestApplyThemePinsBackground(t *testing.T) {
	orig := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(orig) })

	applyTheme("Light")
	assert.False(t, lipgloss.HasDarkBackground())

	applyTheme("dark")
	assert.True(t, lipgloss.HasDarkBackground())

	applyTheme("auto")
	assert.True(t, lipgloss.HasDarkBackground(), "auto keeps the current setting")
}
