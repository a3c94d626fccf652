// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for pulse.
//
// Configuration sources, in order of precedence:
//   - environment variables (PULSE_API_URL, PULSE_THEME, ...)
//   - a .env file in the working directory
//   - ~/.pulse/config.toml
//   - built-in defaults
//
// A Watcher can reload the TOML file on change so a running TUI picks up
// theme or endpoint edits without a restart.
package config
