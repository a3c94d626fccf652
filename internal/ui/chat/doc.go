// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the pulse TUI.
//
// The view owns a transcript.Reconciler and is the single writer to it:
// stream events arrive as Bubble Tea messages pulled one at a time from the
// open api.Stream, so ordering is preserved without locks. Rendering during
// a stream is throttled to 30fps by a StreamingBuffer so token bursts do
// not flicker the viewport.
package chat
