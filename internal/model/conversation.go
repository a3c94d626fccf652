// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the server-side record of a chat thread. The client never
// creates one directly: the backend mints the conversation on the first
// message of a new thread and announces its id in the stream's start event.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// SortConversations orders conversations most recently updated first,
// matching the sidebar ordering the backend uses.
func SortConversations(convs []Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
}

// FindConversation returns the conversation with the given id, or nil.
func FindConversation(convs []Conversation, id string) *Conversation {
	for i := range convs {
		if convs[i].ID == id {
			return &convs[i]
		}
	}
	return nil
}
