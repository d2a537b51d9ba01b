// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/conversation"
	"github.com/jeranaias/cosmos-tui/internal/markdown"
	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/speech"
	"github.com/jeranaias/cosmos-tui/internal/ui/components"
	"github.com/jeranaias/cosmos-tui/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	inputHeight  = 3 // rounded border around one line
	statusHeight = 1
)

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.help.Width = m.width

	// Border, padding and the "> " prompt.
	m.input.Width = m.width - 8
	if m.input.Width < 10 {
		m.input.Width = 10
	}

	m.layout()
	m.ready = true
	m.refresh(true)
	return m, nil
}

// layout sizes the viewport to whatever the fixed rows leave over.
func (m *Model) layout() {
	reserved := lipgloss.Height(m.header.View()) + inputHeight + statusHeight
	if m.help.ShowAll {
		reserved += lipgloss.Height(m.help.FullHelpView(m.keys.FullHelp()))
	}

	vpHeight := m.height - reserved
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := m.width
	if vpWidth < 1 {
		vpWidth = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
}

// refresh re-renders the transcript into the viewport, following the tail
// when follow is set. Unchanged bubbles come from the cache.
func (m *Model) refresh(follow bool) {
	m.cache.rebuild(m.machine.Transcript(), m.theme, m.viewport.Width-2, m.showTimestamps, m.copy)
	m.viewport.SetContent(m.composeTranscript())
	if follow {
		m.viewport.GotoBottom()
	}
}

// refreshTyping redraws the typing line under the cached transcript.
func (m *Model) refreshTyping() {
	m.viewport.SetContent(m.composeTranscript())
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.CopyCode):
		return m.copyLatestCode()

	case key.Matches(msg, m.keys.SaveImage):
		return m.saveLatestImage()

	case key.Matches(msg, m.keys.Listen):
		return m.toggleListening()

	case key.Matches(msg, m.keys.StopSpeech):
		m.synth.Cancel()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		m.refresh(false)
		return m, nil
	}

	// The input box is disabled while a request is outstanding.
	if m.machine.IsBusy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// CONVERSATION
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	d, ok := m.machine.Submit(m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.status.SetMessage("")

	return m, tea.Batch(runDispatch(d), m.spinner.Tick)
}

// runDispatch performs the request off the event loop.
func runDispatch(d *conversation.Dispatch) tea.Cmd {
	return func() tea.Msg {
		return responseMsg{outcome: d.Run(context.Background())}
	}
}

func (m Model) handleResponse(msg responseMsg) (tea.Model, tea.Cmd) {
	m.machine.Complete(msg.outcome)

	if msg.outcome.Err != nil {
		m.status.SetStatus(components.StatusError)
		m.status.SetMessage("Request failed")
	} else {
		m.status.SetStatus(components.StatusReady)
	}

	return m, m.input.Focus()
}

// handleConversationEvent redraws after the machine changes, whoever
// changed it, then waits for the next change.
func (m Model) handleConversationEvent(e conversation.Event) (tea.Model, tea.Cmd) {
	if e.Kind == conversation.EventBusyChanged && m.machine.State() == conversation.StateAwaitingResponse {
		m.status.SetStatus(components.StatusThinking)
	}
	m.refresh(true)
	return m, waitForEvent(m.events)
}

// =============================================================================
// COPY AND SAVE
// =============================================================================

// latestCodeBlock finds the last code block in the transcript.
func (m Model) latestCodeBlock() (msgID string, index int, code string, ok bool) {
	msgs := m.machine.Transcript()
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.Role() != model.RoleAI || msg.IsImage() {
			continue
		}
		blocks := markdown.CodeBlocks(msg.Text())
		if n := len(blocks); n > 0 {
			return msg.ID(), n - 1, blocks[n-1].Code, true
		}
	}
	return "", 0, "", false
}

func (m Model) copyLatestCode() (tea.Model, tea.Cmd) {
	id, idx, code, ok := m.latestCodeBlock()
	if !ok {
		m.status.SetMessage("No code block to copy")
		return m, nil
	}

	cmd, err := m.copy.Copy(components.CodeTarget(id, idx), code)
	if err != nil {
		slog.Warn("clipboard_write_failed", "error", err)
		m.status.SetMessage("Copy failed: " + err.Error())
		return m, nil
	}

	m.status.SetMessage("Copied code block")
	m.refresh(false)
	return m, cmd
}

func (m Model) saveLatestImage() (tea.Model, tea.Cmd) {
	if img, ok := m.machine.LastOf(model.RoleAI, model.KindImage); ok {
		return m, saveImage(m.saveDir, img)
	}
	m.status.SetMessage("No image to save")
	return m, nil
}

func saveImage(dir string, msg model.Message) tea.Cmd {
	return func() tea.Msg {
		data, err := msg.ImageBytes()
		if err != nil {
			return imageSavedMsg{err: err}
		}
		path := filepath.Join(dir, "image-"+msg.ID()+".png")
		if err := util.AtomicWriteFile(path, data, 0644); err != nil {
			return imageSavedMsg{path: path, err: err}
		}
		return imageSavedMsg{path: path}
	}
}

func (m Model) handleImageSaved(msg imageSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		slog.Warn("image_save_failed", "path", msg.path, "error", msg.err)
		m.status.SetMessage("Save failed: " + msg.err.Error())
		return m, nil
	}
	slog.Info("image_saved", "path", msg.path)
	m.status.SetMessage(fmt.Sprintf("Saved %s", filepath.Base(msg.path)))
	return m, nil
}

// =============================================================================
// SPEECH CAPTURE
// =============================================================================

func (m Model) toggleListening() (tea.Model, tea.Cmd) {
	if m.session != nil {
		// The done message disarms the indicator.
		m.session.Stop()
		return m, nil
	}
	if !m.recognizer.Supported() {
		m.status.SetMessage("Speech recognition is not available")
		return m, nil
	}

	sess, err := m.recognizer.Start(context.Background())
	if err != nil {
		slog.Warn("speech_capture_failed", "error", err)
		m.status.SetMessage("Could not start listening")
		return m, nil
	}
	m.session = sess
	m.status.Listening = true
	return m, waitForSpeech(sess)
}

// waitForSpeech yields the session's result, then its end.
func waitForSpeech(sess *speech.Session) tea.Cmd {
	return func() tea.Msg {
		if text, ok := <-sess.Results(); ok {
			return speechResultMsg{session: sess, text: text}
		}
		return speechDoneMsg{session: sess}
	}
}

func (m Model) handleSpeechResult(msg speechResultMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.session {
		return m, nil
	}
	m.input.SetValue(msg.text)
	m.input.CursorEnd()
	return m, waitForSpeech(msg.session)
}
