// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the cosmos command line.
//
// Commands:
//
//	cosmos               full-screen chat (default)
//	cosmos ask <prompt>  one prompt, reply on stdout
//	cosmos repl          line-mode chat with history
//	cosmos config path   print the config file location
//	cosmos config show   print the effective config, API key redacted
//	cosmos config init   write a default config file
//
// Global flags override the config file and environment for a single run:
//
//	--config       path to config.toml
//	--model        text model
//	--image-model  image model
//	--backend      "http" or "sdk"
//	--no-speech    disable speech for this run
package cli
