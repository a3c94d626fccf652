// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript maintains the in-memory conversation transcript and the
// state machine for one assistant turn.
//
// The Reconciler folds the decoded event sequence into an ordered message
// list: it owns the "append to the open assistant message vs. start a new
// one" decision, conversation-id assignment, and the error/completion
// transitions. The accumulator, not the transcript, is authoritative for the
// open assistant message — each content event resyncs the message to the full
// accumulated value, so duplicate flush granularity can never double content.
//
// The Reconciler is not safe for concurrent use; it is owned by a single
// event loop (the Bubble Tea update loop, or the REPL goroutine).
package transcript
