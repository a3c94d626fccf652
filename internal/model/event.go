// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// =============================================================================
// STREAM EVENT TYPE
// =============================================================================

// EventType identifies the variant of a StreamEvent.
type EventType string

const (
	EventStart   EventType = "start"
	EventContent EventType = "content"
	EventEnd     EventType = "end"
	EventError   EventType = "error"
)

// Valid reports whether the event type is one of the known variants.
func (t EventType) Valid() bool {
	switch t {
	case EventStart, EventContent, EventEnd, EventError:
		return true
	}
	return false
}

// StreamEvent is one record of the assistant service's streamed response.
//
// Invariants (enforced by the reconciler, not the decoder):
//   - at most one start per turn, arriving before any content
//   - Text is present and uninterpreted for content events
//   - error events carry an optional human-readable Text
//   - end carries no payload
type StreamEvent struct {
	Type           EventType `json:"type"`
	Text           string    `json:"text,omitempty"`
	ConversationID string    `json:"conversationId,omitempty"`
}

// ErrUnknownEventType is returned by ParseStreamEvent for a record whose type
// field is missing or not a known variant. Such records are dropped by the
// decoder rather than coerced into a shape they do not have.
var ErrUnknownEventType = errors.New("unknown stream event type")

// ParseStreamEvent decodes a single JSON record into a StreamEvent,
// rejecting unknown or missing type values.
func ParseStreamEvent(data []byte) (StreamEvent, error) {
	var ev StreamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return StreamEvent{}, err
	}
	if !ev.Type.Valid() {
		return StreamEvent{}, fmt.Errorf("%w: %q", ErrUnknownEventType, ev.Type)
	}
	return ev, nil
}
