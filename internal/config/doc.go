// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the cosmos configuration.
//
// The file lives at ~/.cosmos/config.toml. Every key is optional; missing
// keys take their defaults and environment variables win over the file:
//
//	[gemini]
//	api_key     = ""                       # GEMINI_API_KEY
//	base_url    = "https://generativelanguage.googleapis.com/v1beta"
//	text_model  = "gemini-3-flash-preview" # COSMOS_MODEL
//	image_model = "gemini-2.5-flash-image" # COSMOS_IMAGE_MODEL
//	backend     = "http"                   # COSMOS_BACKEND (http | sdk)
//	timeout     = ""                       # e.g. "90s"; empty means none
//
//	[speech]
//	enabled     = true
//	tts_command = ""                       # COSMOS_TTS ("off" disables speech)
//	stt_command = ""                       # COSMOS_STT
//	rate        = 175
//	pitch       = 50
//	locale      = "en-US"
//
//	[ui]
//	theme           = "auto"               # auto | dark | light
//	show_timestamps = true
//
//	[logging]
//	level  = "info"                        # COSMOS_LOG_LEVEL
//	format = "text"                        # text | json
//	path   = ""                            # default ~/.cosmos/logs/cosmos.log
//
// Watch reloads the file when it changes so model switches apply without a
// restart.
package config
