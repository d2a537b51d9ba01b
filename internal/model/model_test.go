// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role() != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role(), RoleUser)
	}
	if msg.Kind() != KindText {
		t.Errorf("Kind = %q, want %q", msg.Kind(), KindText)
	}
	if msg.Text() != "Hello" {
		t.Errorf("Text = %q, want 'Hello'", msg.Text())
	}
	if msg.ID() == "" {
		t.Error("ID should be set")
	}
	if msg.CreatedAt().IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a := NewAIText("a")
	b := NewAIText("a")
	if a.ID() == b.ID() {
		t.Errorf("expected distinct IDs, both were %q", a.ID())
	}
}

func TestNewAIImage(t *testing.T) {
	valid := ImageURIPrefix + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{"valid png data uri", valid, false},
		{"empty", "", true},
		{"missing body", ImageURIPrefix, true},
		{"wrong mime", "data:image/jpeg;base64,aGVsbG8=", true},
		{"not base64", ImageURIPrefix + "%%%", true},
		{"plain url", "https://example.com/cat.png", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := NewAIImage(tc.uri)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidImageURI) {
					t.Errorf("NewAIImage(%q) error = %v, want ErrInvalidImageURI", tc.uri, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAIImage() unexpected error: %v", err)
			}
			if msg.Role() != RoleAI || !msg.IsImage() {
				t.Errorf("got role=%q kind=%q, want ai image", msg.Role(), msg.Kind())
			}
			if msg.ImageURL() != tc.uri {
				t.Errorf("ImageURL = %q, want %q", msg.ImageURL(), tc.uri)
			}
		})
	}
}

func TestMessage_ImageBytes(t *testing.T) {
	msg, err := NewAIImage(ImageURIPrefix + base64.StdEncoding.EncodeToString([]byte("abc")))
	if err != nil {
		t.Fatalf("NewAIImage() error: %v", err)
	}
	data, err := msg.ImageBytes()
	if err != nil {
		t.Fatalf("ImageBytes() error: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("ImageBytes() = %q, want 'abc'", data)
	}

	if _, err := NewAIText("hi").ImageBytes(); err == nil {
		t.Error("ImageBytes() on a text message should fail")
	}
}

func TestMessage_ImageSizeMatchesDecoded(t *testing.T) {
	for _, payload := range []string{"a", "ab", "abc", "abcd", strings.Repeat("x", 1001)} {
		uri := ImageURIPrefix + base64.StdEncoding.EncodeToString([]byte(payload))
		msg, err := NewAIImage(uri)
		if err != nil {
			t.Fatalf("NewAIImage: %v", err)
		}
		if got := msg.ImageSize(); got != len(payload) {
			t.Errorf("ImageSize() = %d, want %d", got, len(payload))
		}
	}
	if got := NewAIText("hi").ImageSize(); got != 0 {
		t.Errorf("ImageSize() on text = %d, want 0", got)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendOrder(t *testing.T) {
	var tr Transcript
	if len(tr.Messages()) != 0 {
		t.Fatal("zero transcript should be empty")
	}

	tr.Append(NewUserMessage("one"))
	tr.Append(NewAIText("two"))
	tr.Append(NewUserMessage("three"))

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	for i, want := range []string{"one", "two", "three"} {
		if msgs[i].Text() != want {
			t.Errorf("msgs[%d] = %q, want %q", i, msgs[i].Text(), want)
		}
	}

	last, ok := tr.Last()
	if !ok || last.Text() != "three" {
		t.Errorf("Last() = %q, %v", last.Text(), ok)
	}
}

func TestTranscript_MessagesIsCopy(t *testing.T) {
	var tr Transcript
	tr.Append(NewUserMessage("keep"))

	msgs := tr.Messages()
	msgs[0] = NewUserMessage("overwritten")

	if got := tr.Messages()[0].Text(); got != "keep" {
		t.Errorf("transcript changed through returned slice: %q", got)
	}
}

func TestTranscript_LastOf(t *testing.T) {
	var tr Transcript
	tr.Append(NewUserMessage("q"))
	tr.Append(NewAIText("first"))
	tr.Append(NewUserMessage("q2"))
	tr.Append(NewAIText("second"))

	m, ok := tr.LastOf(RoleAI, KindText)
	if !ok || m.Text() != "second" {
		t.Errorf("LastOf(ai,text) = %q, %v; want 'second'", m.Text(), ok)
	}
	if _, ok := tr.LastOf(RoleAI, KindImage); ok {
		t.Error("LastOf(ai,image) should find nothing")
	}
}

// =============================================================================
// MODEL REGISTRY TESTS
// =============================================================================

func TestGetModelInfo(t *testing.T) {
	info, ok := GetModelInfo("  GEMINI-2.5-FLASH-IMAGE ")
	if !ok {
		t.Fatal("expected default image model to be registered")
	}
	if info.Capability != CapabilityImage {
		t.Errorf("Capability = %q, want image", info.Capability)
	}

	if DisplayName("unknown-model") != "unknown-model" {
		t.Error("DisplayName should fall back to the raw ID")
	}
}

func TestModelsWith(t *testing.T) {
	for _, m := range ModelsWith(CapabilityText) {
		if m.Capability != CapabilityText {
			t.Errorf("%s has capability %q", m.ID, m.Capability)
		}
	}
	if len(ModelsWith(CapabilityImage)) == 0 {
		t.Error("expected at least one image model")
	}
}
