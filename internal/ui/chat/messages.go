// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat view:
// stream lifecycle, conversation loading, and the render tick.
package chat

import (
	"time"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamOpenedMsg signals that SendMessage succeeded and the response
// stream is open.
type StreamOpenedMsg struct {
	Stream *api.Stream
}

// StreamEventMsg delivers the next decoded event from the open stream.
// Events arrive one per message, in stream order.
type StreamEventMsg struct {
	Event model.StreamEvent
}

// StreamClosedMsg signals the transport closed. Err is nil on a clean EOF.
type StreamClosedMsg struct {
	Err error
}

// StreamFailedMsg signals that opening the stream failed before any event.
type StreamFailedMsg struct {
	Err error
}

// StreamTickMsg drives the 30fps render throttle while streaming.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// ConversationsLoadedMsg delivers the refreshed conversation list.
type ConversationsLoadedMsg struct {
	Conversations []model.Conversation
	FromCache     bool
	Err           error
}

// HistoryLoadedMsg delivers the message history of a selected conversation.
type HistoryLoadedMsg struct {
	ConversationID string
	Messages       []model.Message
	FromCache      bool
	Err            error
}
