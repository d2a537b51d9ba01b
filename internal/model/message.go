// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAI:
		return "Gemini"
	default:
		return string(r)
	}
}

// Avatar returns the glyph shown next to messages from this role.
func (r Role) Avatar() string {
	if r == RoleAI {
		return "🤖"
	}
	return "👤"
}

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind is the payload type carried by a message.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// ImageURIPrefix is the only data URI form image messages carry.
const ImageURIPrefix = "data:image/png;base64,"

// ErrInvalidImageURI is returned when an image payload is not a PNG data URI.
var ErrInvalidImageURI = errors.New("image payload is not a data:image/png;base64 URI")

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Fields are unexported so a message
// cannot change after construction.
type Message struct {
	id        string
	role      Role
	kind      Kind
	text      string
	imageURL  string
	createdAt time.Time
}

// NewUserMessage creates a user message. User messages are always text.
func NewUserMessage(text string) Message {
	return newMessage(RoleUser, KindText, text, "")
}

// NewAIText creates a text reply from the model.
func NewAIText(text string) Message {
	return newMessage(RoleAI, KindText, text, "")
}

// NewAIImage creates an image reply. dataURI must be a well-formed
// base64 PNG data URI.
func NewAIImage(dataURI string) (Message, error) {
	if !IsDataURI(dataURI) {
		return Message{}, ErrInvalidImageURI
	}
	return newMessage(RoleAI, KindImage, "", dataURI), nil
}

func newMessage(role Role, kind Kind, text, imageURL string) Message {
	return Message{
		id:        uuid.NewString(),
		role:      role,
		kind:      kind,
		text:      text,
		imageURL:  imageURL,
		createdAt: time.Now(),
	}
}

func (m Message) ID() string           { return m.id }
func (m Message) Role() Role           { return m.role }
func (m Message) Kind() Kind           { return m.kind }
func (m Message) Text() string         { return m.text }
func (m Message) ImageURL() string     { return m.imageURL }
func (m Message) CreatedAt() time.Time { return m.createdAt }

// IsImage reports whether the message carries an image payload.
func (m Message) IsImage() bool {
	return m.kind == KindImage
}

// TimeString formats the creation time the way the chat view shows it.
func (m Message) TimeString() string {
	return m.createdAt.Format("15:04")
}

// ImageBytes decodes the PNG payload of an image message.
func (m Message) ImageBytes() ([]byte, error) {
	if !m.IsImage() {
		return nil, ErrInvalidImageURI
	}
	return DecodeImage(m.imageURL)
}

// ImageSize returns the decoded payload size in bytes without decoding it.
func (m Message) ImageSize() int {
	if !m.IsImage() {
		return 0
	}
	body := strings.TrimPrefix(m.imageURL, ImageURIPrefix)
	n := base64.StdEncoding.DecodedLen(len(body))
	for i := len(body) - 1; i >= 0 && i >= len(body)-2 && body[i] == '='; i-- {
		n--
	}
	return n
}

// =============================================================================
// DATA URI HELPERS
// =============================================================================

// IsDataURI reports whether s is a PNG data URI with a valid base64 body.
func IsDataURI(s string) bool {
	if !strings.HasPrefix(s, ImageURIPrefix) {
		return false
	}
	body := s[len(ImageURIPrefix):]
	if body == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(body)
	return err == nil
}

// DecodeImage returns the raw bytes behind a PNG data URI.
func DecodeImage(dataURI string) ([]byte, error) {
	if !strings.HasPrefix(dataURI, ImageURIPrefix) {
		return nil, ErrInvalidImageURI
	}
	data, err := base64.StdEncoding.DecodeString(dataURI[len(ImageURIPrefix):])
	if err != nil {
		return nil, errors.Join(ErrInvalidImageURI, err)
	}
	return data, nil
}
