// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cosmos-tui/internal/conversation"
	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/speech"
	"github.com/jeranaias/cosmos-tui/internal/ui/components"
	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
)

// Placeholder is the input hint shown while the box is empty.
const Placeholder = "Ask something..."

const eventBuffer = 64

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the chat screen to its collaborators.
type Options struct {
	// Machine holds the conversation. Required.
	Machine *conversation.Machine

	// Synth and Recognizer default to the no-op engines.
	Synth      speech.Synthesizer
	Recognizer speech.Recognizer

	// ModelName is shown in the header and status bar.
	ModelName string

	ShowTimestamps bool

	// SaveDir is where ctrl+s writes images. Empty means the working
	// directory.
	SaveDir string

	// Clipboard replaces the system clipboard when set.
	Clipboard func(string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat screen.
type Model struct {
	theme   *styles.Theme
	machine *conversation.Machine

	synth      speech.Synthesizer
	recognizer speech.Recognizer
	session    *speech.Session

	keys     KeyMap
	help     help.Model
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	header  *components.Header
	status  *components.StatusBar
	welcome components.Welcome
	copy    components.CopyButton
	cache   *transcriptCache

	events      chan conversation.Event
	unsubscribe func()

	showTimestamps bool
	saveDir        string

	width  int
	height int
	ready  bool
}

// New creates the chat model.
func New(theme *styles.Theme, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = Placeholder
	ti.CharLimit = 8192
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Typing

	synth := opts.Synth
	if synth == nil {
		synth = speech.NoopSynthesizer{}
	}
	rec := opts.Recognizer
	if rec == nil {
		rec = speech.NoopRecognizer{}
	}
	saveDir := opts.SaveDir
	if saveDir == "" {
		saveDir = "."
	}

	header := components.NewHeader(theme)
	header.SetModel(opts.ModelName)
	status := components.NewStatusBar(theme)
	status.SetModel(opts.ModelName)

	// Dropping an event is harmless: every refresh reads the whole state.
	events := make(chan conversation.Event, eventBuffer)
	unsubscribe := opts.Machine.Subscribe(func(e conversation.Event) {
		select {
		case events <- e:
		default:
		}
	})

	return Model{
		theme:          theme,
		machine:        opts.Machine,
		synth:          synth,
		recognizer:     rec,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		input:          ti,
		viewport:       viewport.New(80, 20),
		spinner:        sp,
		header:         header,
		status:         status,
		welcome:        components.NewWelcome(theme),
		copy:           components.CopyButton{Write: opts.Clipboard},
		cache:          newTranscriptCache(),
		events:         events,
		unsubscribe:    unsubscribe,
		showTimestamps: opts.ShowTimestamps,
		saveDir:        saveDir,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blinking and begins listening for conversation
// changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case responseMsg:
		return m.handleResponse(msg)

	case conversationEventMsg:
		return m.handleConversationEvent(msg.event)

	case spinner.TickMsg:
		if !m.machine.IsBusy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshTyping()
		return m, cmd

	case components.CopyResetMsg:
		m.copy.Reset(msg)
		m.refresh(false)
		return m, nil

	case speechResultMsg:
		return m.handleSpeechResult(msg)

	case speechDoneMsg:
		if msg.session == m.session {
			m.session = nil
			m.status.Listening = false
		}
		return m, nil

	case imageSavedMsg:
		return m.handleImageSaved(msg)

	case ModelsChangedMsg:
		m.header.SetModel(msg.TextModel)
		m.status.SetModel(msg.TextModel)
		m.status.SetMessage("Model changed to " + model.DisplayName(msg.TextModel))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Busy reports whether a request is outstanding.
func (m Model) Busy() bool {
	return m.machine.IsBusy()
}

// Listening reports whether a capture session is armed.
func (m Model) Listening() bool {
	return m.session != nil
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Shutdown stops capture and playback and detaches from the conversation.
// Called on quit.
func (m Model) Shutdown() {
	m.unsubscribe()
	if m.session != nil {
		m.session.Stop()
	}
	m.synth.Cancel()
}
