// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/router"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Generator serves both endpoints. gemini.Backend satisfies it.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Speaker vocalizes replies. speech.Synthesizer satisfies it.
type Speaker interface {
	Speak(text string)
}

type silentSpeaker struct{}

func (silentSpeaker) Speak(string) {}

// =============================================================================
// STATE AND EVENTS
// =============================================================================

// State is the machine's position in the request cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// Fixed replies.
const (
	FailureText     = "Sorry, something went wrong."
	ImageSpokenText = "Here is the generated image"
)

// EventKind identifies what changed.
type EventKind int

const (
	EventUserAppended EventKind = iota
	EventBusyChanged
	EventAIAppended
)

// Event is delivered to subscribers after each change.
type Event struct {
	Kind    EventKind
	Message model.Message // set for the Appended kinds
	Busy    bool          // busy flag after the change
}

// =============================================================================
// MACHINE
// =============================================================================

// Machine holds the transcript and busy flag. Only its methods mutate them.
// It is safe for concurrent use, though the chat UI drives it from a
// single goroutine.
type Machine struct {
	gen     Generator
	speaker Speaker

	mu         sync.Mutex
	transcript model.Transcript
	pending    *Dispatch
	subs       map[int]func(Event)
	nextSub    int
}

// New creates an idle machine with an empty transcript. A nil speaker
// disables playback.
func New(gen Generator, speaker Speaker) *Machine {
	if speaker == nil {
		speaker = silentSpeaker{}
	}
	return &Machine{
		gen:     gen,
		speaker: speaker,
		subs:    make(map[int]func(Event)),
	}
}

// Transcript returns a copy of all messages in order.
func (m *Machine) Transcript() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcript.Messages()
}

// Last returns the newest message, if any.
func (m *Machine) Last() (model.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcript.Last()
}

// LastOf returns the newest message matching role and kind.
func (m *Machine) LastOf(role model.Role, kind model.Kind) (model.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcript.LastOf(role, kind)
}

// IsBusy reports whether a dispatch is outstanding.
func (m *Machine) IsBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// State returns the current state.
func (m *Machine) State() State {
	if m.IsBusy() {
		return StateAwaitingResponse
	}
	return StateIdle
}

// Subscribe registers fn for change events and returns a function that
// removes it. fn runs on the goroutine that made the change, after the
// machine's lock is released.
func (m *Machine) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Submit starts a request for raw. It returns ok=false without changing
// anything when raw is blank or a request is already outstanding.
//
// On success the user message has been appended and the machine is busy
// before Submit returns.
func (m *Machine) Submit(raw string) (*Dispatch, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}

	m.mu.Lock()
	if m.pending != nil {
		m.mu.Unlock()
		slog.Debug("conversation_submit_while_busy")
		return nil, false
	}

	decision := router.Classify(raw)
	d := &Dispatch{Prompt: raw, Route: decision.Route, gen: m.gen}

	userMsg := model.NewUserMessage(raw)
	m.transcript.Append(userMsg)
	m.pending = d
	subs := m.subscribersLocked()
	m.mu.Unlock()

	slog.Info("conversation_dispatch",
		"route", decision.Route,
		"reason", decision.Reason,
		"prompt_chars", len(raw),
	)

	emit(subs,
		Event{Kind: EventUserAppended, Message: userMsg, Busy: true},
		Event{Kind: EventBusyChanged, Busy: true},
	)
	return d, true
}

// Complete records the outcome of the outstanding dispatch and returns the
// machine to Idle. Outcomes from any other dispatch are ignored.
func (m *Machine) Complete(out Outcome) {
	m.complete(out)
}

func (m *Machine) complete(out Outcome) (model.Message, bool) {
	m.mu.Lock()
	if out.dispatch == nil || out.dispatch != m.pending {
		m.mu.Unlock()
		slog.Warn("conversation_stale_outcome")
		return model.Message{}, false
	}

	var reply model.Message
	var spoken string
	func() {
		defer func() { m.pending = nil }()

		if out.Err != nil {
			slog.Error("conversation_request_failed",
				"route", out.Route,
				"error", out.Err,
			)
			reply = model.NewAIText(FailureText)
			m.transcript.Append(reply)
			return
		}

		reply = out.Message
		m.transcript.Append(reply)
		if reply.IsImage() {
			spoken = ImageSpokenText
		} else {
			spoken = reply.Text()
		}
	}()
	subs := m.subscribersLocked()
	m.mu.Unlock()

	emit(subs,
		Event{Kind: EventAIAppended, Message: reply, Busy: false},
		Event{Kind: EventBusyChanged, Busy: false},
	)

	if spoken != "" {
		m.speaker.Speak(spoken)
	}
	return reply, true
}

// SubmitAndWait runs a full request cycle on the calling goroutine and
// returns the reply. ok is false when raw was not accepted.
func (m *Machine) SubmitAndWait(ctx context.Context, raw string) (reply model.Message, ok bool) {
	d, ok := m.Submit(raw)
	if !ok {
		return model.Message{}, false
	}
	return m.complete(d.Run(ctx))
}

func (m *Machine) subscribersLocked() []func(Event) {
	if len(m.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Event), len(ids))
	for i, id := range ids {
		out[i] = m.subs[id]
	}
	return out
}

func emit(subs []func(Event), events ...Event) {
	for _, e := range events {
		for _, fn := range subs {
			fn(e)
		}
	}
}

// =============================================================================
// DISPATCH
// =============================================================================

// Dispatch is one outstanding request.
type Dispatch struct {
	Prompt string
	Route  router.Route

	gen Generator
}

// Outcome is the result of Dispatch.Run.
type Outcome struct {
	Route   router.Route
	Message model.Message
	Err     error

	dispatch *Dispatch
}

var errNoGenerator = errors.New("no generator configured")

// Run performs the request. It does not touch machine state and is safe to
// call from any goroutine. Every failure, including a panic in the
// generator, is returned in Outcome.Err.
func (d *Dispatch) Run(ctx context.Context) (out Outcome) {
	out = Outcome{Route: d.Route, dispatch: d}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("generator panic: %v", r)
		}
	}()

	if d.gen == nil {
		out.Err = errNoGenerator
		return out
	}

	switch d.Route {
	case router.RouteImage:
		uri, err := d.gen.GenerateImage(ctx, d.Prompt)
		if err != nil {
			out.Err = fmt.Errorf("generate image: %w", err)
			return out
		}
		msg, err := model.NewAIImage(uri)
		if err != nil {
			out.Err = fmt.Errorf("generate image: %w", err)
			return out
		}
		out.Message = msg

	default:
		text, err := d.gen.GenerateText(ctx, d.Prompt)
		if err != nil {
			out.Err = fmt.Errorf("generate text: %w", err)
			return out
		}
		out.Message = model.NewAIText(text)
	}

	return out
}
