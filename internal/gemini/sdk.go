// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/jeranaias/cosmos-tui/internal/model"
)

// Backend is anything that can serve both generation endpoints.
type Backend interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	SetModels(textModel, imageModel string)
}

// Backend names accepted by NewBackend.
const (
	BackendHTTP = "http"
	BackendSDK  = "sdk"
)

// NewBackend returns the backend named by kind. Unknown names fall back to
// the HTTP client.
func NewBackend(kind string, cfg *ClientConfig) Backend {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case BackendSDK:
		return NewSDKBackend(cfg)
	case "", BackendHTTP:
		return NewClientWithConfig(cfg)
	default:
		slog.Warn("gemini_unknown_backend", "backend", kind)
		return NewClientWithConfig(cfg)
	}
}

// =============================================================================
// SDK BACKEND
// =============================================================================

type modelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGenaiClient = func(ctx context.Context, cfg *genai.ClientConfig) (modelsClient, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// SDKBackend serves generation through google.golang.org/genai.
//
// The SDK client is created on first use so a missing API key surfaces as a
// failed request rather than a startup error.
type SDKBackend struct {
	mu     sync.Mutex
	config ClientConfig
	models modelsClient
}

// NewSDKBackend creates an SDK backend. No network or key check happens here.
func NewSDKBackend(config *ClientConfig) *SDKBackend {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.fillDefaults()
	return &SDKBackend{config: cfg}
}

// SetModels replaces the text and image models. Empty values keep the
// current model.
func (b *SDKBackend) SetModels(textModel, imageModel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if textModel != "" {
		b.config.TextModel = textModel
	}
	if imageModel != "" {
		b.config.ImageModel = imageModel
	}
}

func (b *SDKBackend) client(ctx context.Context) (modelsClient, ClientConfig, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.models == nil {
		models, err := newGenaiClient(ctx, &genai.ClientConfig{
			APIKey:  b.config.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, b.config, &ClientError{Type: ErrTypeConnection, Message: "create genai client", Cause: err}
		}
		b.models = models
	}
	return b.models, b.config, nil
}

// GenerateText mirrors Client.GenerateText, including the "No response"
// fallback.
func (b *SDKBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := b.generate(ctx, prompt, func(c ClientConfig) string { return c.TextModel })
	if err != nil {
		return "", err
	}

	parts := firstParts(resp)
	if len(parts) == 0 || parts[0] == nil || parts[0].Text == "" {
		return NoResponseText, nil
	}
	return parts[0].Text, nil
}

// GenerateImage mirrors Client.GenerateImage. Raw image bytes from the SDK
// are re-encoded as base64.
func (b *SDKBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := b.generate(ctx, prompt, func(c ClientConfig) string { return c.ImageModel })
	if err != nil {
		return "", err
	}

	for _, part := range firstParts(resp) {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return model.ImageURIPrefix + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}
	return "", ErrNoImageData
}

func (b *SDKBackend) generate(ctx context.Context, prompt string, pick func(ClientConfig) string) (*genai.GenerateContentResponse, error) {
	models, cfg, err := b.client(ctx)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}

	modelID := pick(cfg)
	resp, err := models.GenerateContent(ctx, modelID, contents, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeStatus, Message: fmt.Sprintf("generate %s", modelID), Cause: err}
	}
	return resp, nil
}

func firstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return nil
	}
	return c.Content.Parts
}
