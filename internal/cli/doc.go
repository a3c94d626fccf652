// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI entry points for pulse: one-shot
// questions, an interactive line-mode chat, auth management, and plain
// text dumps of the dashboard and conversation list. The default
// invocation with no command starts the full-screen TUI instead.
package cli
