// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jeranaias/cosmos-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from a Gemini backend.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches on error type so sentinels work with errors.Is.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// ErrorType categorizes client errors for logging. Callers of the
// conversation layer do not distinguish between them.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
	ErrTypeNoImage
)

// String returns a short name for logs.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeNoImage:
		return "no_image"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNoImageData = &ClientError{Type: ErrTypeNoImage, Message: "response contains no inline image data"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the public Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// BaseURL is the API root (default: DefaultBaseURL)
	BaseURL string

	// APIKey is sent as the key query parameter. It is not validated;
	// an empty key fails at the server.
	APIKey string

	// TextModel serves GenerateText (default: gemini-3-flash-preview)
	TextModel string

	// ImageModel serves GenerateImage (default: gemini-2.5-flash-image)
	ImageModel string

	// Timeout for a whole request. Zero means no client-side timeout.
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    DefaultBaseURL,
		TextModel:  model.DefaultTextModel,
		ImageModel: model.DefaultImageModel,
	}
}

func (c *ClientConfig) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TextModel == "" {
		c.TextModel = model.DefaultTextModel
	}
	if c.ImageModel == "" {
		c.ImageModel = model.DefaultImageModel
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Gemini REST API over plain HTTP.
//
// The Client is safe for concurrent use. Models can be swapped at runtime
// with SetModels, which the config watcher uses on reload.
type Client struct {
	mu         sync.RWMutex
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a client with default configuration and no API key.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.fillDefaults()

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetModels replaces the text and image models. Empty values keep the
// current model.
func (c *Client) SetModels(textModel, imageModel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if textModel != "" {
		c.config.TextModel = textModel
	}
	if imageModel != "" {
		c.config.ImageModel = imageModel
	}
}

// Models returns the text and image models currently in use.
func (c *Client) Models() (textModel, imageModel string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.TextModel, c.config.ImageModel
}

// =============================================================================
// GENERATION
// =============================================================================

// GenerateText sends prompt to the text model and returns the reply text.
// A well-formed response without a text part yields NoResponseText.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	textModel, _ := c.Models()

	body, err := c.generate(ctx, textModel, prompt)
	if err != nil {
		return "", err
	}

	text := gjson.GetBytes(body, pathFirstText).String()
	if text == "" {
		slog.Debug("gemini_text_fallback", "model", textModel)
		return NoResponseText, nil
	}
	return text, nil
}

// GenerateImage sends prompt to the image model and returns the first
// inline image as a PNG data URI. There is no fallback: a response without
// inline data returns ErrNoImageData.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	_, imageModel := c.Models()

	body, err := c.generate(ctx, imageModel, prompt)
	if err != nil {
		return "", err
	}

	data, ok := firstInlineData(gjson.GetBytes(body, pathFirstParts))
	if !ok {
		return "", ErrNoImageData
	}
	return model.ImageURIPrefix + data, nil
}

// firstInlineData returns the inline payload of the first part carrying one.
func firstInlineData(parts gjson.Result) (string, bool) {
	var data string
	parts.ForEach(func(_, part gjson.Result) bool {
		if d := part.Get(pathInlineData); d.Exists() && d.String() != "" {
			data = d.String()
			return false
		}
		return true
	})
	return data, data != ""
}

// generate performs one generateContent call and returns the raw JSON body.
func (c *Client) generate(ctx context.Context, modelID, prompt string) ([]byte, error) {
	body, err := json.Marshal(NewGenerateRequest(prompt))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(modelID), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: redact(err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	slog.Debug("gemini_response",
		"model", modelID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "generate request failed: " + resp.Status
		if apiMsg := gjson.GetBytes(raw, pathAPIError).String(); apiMsg != "" {
			msg = fmt.Sprintf("%s: %s", msg, apiMsg)
		}
		return nil, &ClientError{Type: ErrTypeStatus, Message: msg}
	}

	if !gjson.ValidBytes(raw) {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "response is not valid JSON"}
	}

	return raw, nil
}

func (c *Client) endpoint(modelID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BaseURL + "/models/" + url.PathEscape(modelID) +
		":generateContent?key=" + url.QueryEscape(c.config.APIKey)
}

// redact strips the request URL, which carries the API key, from transport
// errors before they reach logs.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
