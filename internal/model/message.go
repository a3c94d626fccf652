// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one the transcript accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// Messages created by this client are provisional: their ID is generated
// locally and is replaced wholesale when history is reloaded from the server.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewMessage creates a provisional message with a generated ID.
func NewMessage(role Role, conversationID, content string) *Message {
	return &Message{
		ID:             newMessageID(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// NewUserMessage creates a provisional user message.
func NewUserMessage(conversationID, content string) *Message {
	return NewMessage(RoleUser, conversationID, content)
}

// NewAssistantMessage creates a provisional assistant message.
func NewAssistantMessage(conversationID, content string) *Message {
	return NewMessage(RoleAssistant, conversationID, content)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	content = strings.ReplaceAll(content, "\r", "")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newMessageID creates a unique provisional message ID.
func newMessageID() string {
	return "msg_" + uuid.NewString()
}
