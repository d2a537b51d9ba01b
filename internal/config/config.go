// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/cosmos-tui/internal/gemini"
	"github.com/jeranaias/cosmos-tui/internal/model"
	"github.com/jeranaias/cosmos-tui/internal/speech"
	"github.com/jeranaias/cosmos-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete cosmos configuration.
type Config struct {
	Gemini  GeminiConfig  `toml:"gemini"`
	Speech  SpeechConfig  `toml:"speech"`
	UI      UIConfig      `toml:"ui"`
	Logging LoggingConfig `toml:"logging"`
}

// GeminiConfig selects the endpoint, models and transport.
type GeminiConfig struct {
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
	TextModel  string `toml:"text_model"`
	ImageModel string `toml:"image_model"`
	// Backend is "http" (plain REST) or "sdk" (google.golang.org/genai).
	Backend string `toml:"backend"`
	// Timeout is a Go duration string. Empty or "0s" means no timeout.
	Timeout string `toml:"timeout"`
}

// SpeechConfig configures playback and capture.
type SpeechConfig struct {
	Enabled    bool   `toml:"enabled"`
	TTSCommand string `toml:"tts_command"`
	STTCommand string `toml:"stt_command"`
	Rate       int    `toml:"rate"`
	Pitch      int    `toml:"pitch"`
	Locale     string `toml:"locale"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme          string `toml:"theme"`
	ShowTimestamps bool   `toml:"show_timestamps"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	voice := speech.DefaultVoice()
	return &Config{
		Gemini: GeminiConfig{
			BaseURL:    gemini.DefaultBaseURL,
			TextModel:  model.DefaultTextModel,
			ImageModel: model.DefaultImageModel,
			Backend:    gemini.BackendHTTP,
		},
		Speech: SpeechConfig{
			Enabled: true,
			Rate:    voice.Rate,
			Pitch:   voice.Pitch,
			Locale:  voice.Locale,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the cosmos configuration directory, ~/.cosmos.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".cosmos"), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file. See LoadOrDefault.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	return LoadOrDefault(path)
}

// LoadOrDefault reads path. A missing file yields defaults. A file that
// cannot be parsed or validated also yields defaults; the error is returned
// alongside for the caller to report. Environment overrides are applied in
// every case.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err == nil {
		return cfg, nil
	}

	cfg = Default()
	cfg.ApplyEnvOverrides()
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	return cfg, err
}

// LoadFrom reads and validates the file at path, applying defaults for
// missing keys and then environment overrides.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML, fills defaults, applies environment overrides and
// validates.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("config_unknown_key", "key", key.String())
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores defaults for keys set to empty strings.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = d.Gemini.BaseURL
	}
	if c.Gemini.TextModel == "" {
		c.Gemini.TextModel = d.Gemini.TextModel
	}
	if c.Gemini.ImageModel == "" {
		c.Gemini.ImageModel = d.Gemini.ImageModel
	}
	if c.Gemini.Backend == "" {
		c.Gemini.Backend = d.Gemini.Backend
	}
	if c.Speech.Locale == "" {
		c.Speech.Locale = d.Speech.Locale
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}

// ApplyEnvOverrides applies environment variable overrides:
//   - GEMINI_API_KEY: gemini.api_key
//   - COSMOS_MODEL: gemini.text_model
//   - COSMOS_IMAGE_MODEL: gemini.image_model
//   - COSMOS_BACKEND: gemini.backend
//   - COSMOS_LOG_LEVEL: logging.level
//   - COSMOS_TTS: speech.tts_command; "off", "0" or "false" disables speech
//   - COSMOS_STT: speech.stt_command
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if m := os.Getenv("COSMOS_MODEL"); m != "" {
		c.Gemini.TextModel = m
	}
	if m := os.Getenv("COSMOS_IMAGE_MODEL"); m != "" {
		c.Gemini.ImageModel = m
	}
	if b := os.Getenv("COSMOS_BACKEND"); b != "" {
		c.Gemini.Backend = b
	}
	if level := os.Getenv("COSMOS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if tts := os.Getenv("COSMOS_TTS"); tts != "" {
		switch strings.ToLower(tts) {
		case "off", "0", "false":
			c.Speech.Enabled = false
		default:
			c.Speech.TTSCommand = tts
		}
	}
	if stt := os.Getenv("COSMOS_STT"); stt != "" {
		c.Speech.STTCommand = stt
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration. The API key is not checked; a missing
// key fails at request time.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Gemini.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "gemini.base_url",
			Message: fmt.Sprintf("invalid URL %q", c.Gemini.BaseURL),
		})
	}

	switch strings.ToLower(c.Gemini.Backend) {
	case gemini.BackendHTTP, gemini.BackendSDK:
	default:
		errs = append(errs, ValidationError{
			Field:   "gemini.backend",
			Message: fmt.Sprintf("invalid backend %q, must be one of: http, sdk", c.Gemini.Backend),
		})
	}

	if _, err := c.Timeout(); err != nil {
		errs = append(errs, ValidationError{Field: "gemini.timeout", Message: err.Error()})
	}

	if c.Speech.Rate < 0 || c.Speech.Rate > 1000 {
		errs = append(errs, ValidationError{
			Field:   "speech.rate",
			Message: fmt.Sprintf("rate %d out of range 0-1000", c.Speech.Rate),
		})
	}
	if c.Speech.Pitch < 0 || c.Speech.Pitch > 99 {
		errs = append(errs, ValidationError{
			Field:   "speech.pitch",
			Message: fmt.Sprintf("pitch %d out of range 0-99", c.Speech.Pitch),
		})
	}

	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme %q, must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q, must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q, must be one of: text, json", c.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Timeout parses gemini.timeout. Empty means zero.
func (c *Config) Timeout() (time.Duration, error) {
	s := strings.TrimSpace(c.Gemini.Timeout)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// ClientConfig builds the Gemini client configuration.
func (c *Config) ClientConfig() *gemini.ClientConfig {
	timeout, _ := c.Timeout()
	return &gemini.ClientConfig{
		BaseURL:    c.Gemini.BaseURL,
		APIKey:     c.Gemini.APIKey,
		TextModel:  c.Gemini.TextModel,
		ImageModel: c.Gemini.ImageModel,
		Timeout:    timeout,
	}
}

// SpeechSettings builds the speech engine settings.
func (c *Config) SpeechSettings() speech.Settings {
	return speech.Settings{
		Enabled:    c.Speech.Enabled,
		TTSCommand: c.Speech.TTSCommand,
		STTCommand: c.Speech.STTCommand,
		Voice: speech.Voice{
			Rate:   c.Speech.Rate,
			Pitch:  c.Speech.Pitch,
			Locale: c.Speech.Locale,
		},
	}
}

// =============================================================================
// SAVE AND DISPLAY
// =============================================================================

const fileHeader = "# cosmos configuration file\n# Environment variables override these values.\n\n"

// Save writes cfg to path with owner-only permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	safe := *c
	if safe.Gemini.APIKey != "" {
		safe.Gemini.APIKey = "****" + lastN(safe.Gemini.APIKey, 4)
	}
	return &safe
}

// WriteTOML encodes the redacted configuration to w.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c.Redacted())
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return ""
	}
	return s[len(s)-n:]
}
