// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// chatRequest is the body for POST /api/chat.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// conversationsResponse is the envelope of GET /api/chat/conversations.
type conversationsResponse struct {
	Conversations []model.Conversation `json:"conversations"`
}

// historyResponse is the envelope of GET /api/chat/history.
type historyResponse struct {
	Messages []model.Message `json:"messages"`
}

// ListConversations fetches the caller's conversations, most recent first.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var resp conversationsResponse
	if err := c.doJSONWithRetry(ctx, http.MethodGet, "/api/chat/conversations", nil, &resp, true); err != nil {
		return nil, err
	}
	model.SortConversations(resp.Conversations)
	return resp.Conversations, nil
}

// GetHistory fetches the full message history of one conversation.
func (c *Client) GetHistory(ctx context.Context, conversationID string) ([]model.Message, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id required")
	}
	path := "/api/chat/history?conversationId=" + url.QueryEscape(conversationID)
	var resp historyResponse
	if err := c.doJSONWithRetry(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// Stream is one open assistant response. It owns the HTTP response body;
// callers must Close it. A Stream is not restartable: a new turn needs a new
// SendMessage call.
type Stream struct {
	events *EventReader
	body   interface{ Close() error }
}

// Next returns the next decoded event, or io.EOF when the transport closes.
func (s *Stream) Next() (model.StreamEvent, error) {
	return s.events.Next()
}

// Drain consumes the stream to EOF and returns every event in order.
func (s *Stream) Drain() ([]model.StreamEvent, error) {
	return s.events.Drain()
}

// Close releases the underlying response body.
func (s *Stream) Close() error {
	return s.body.Close()
}

// SendMessage posts a user message and opens the streamed response.
//
// conversationID is empty for the first message of a new conversation; the
// backend mints one and announces it in the stream's start event. A non-2xx
// response is converted to an error before any stream is returned; stream
// lifetime is controlled by ctx.
func (c *Client) SendMessage(ctx context.Context, message, conversationID string) (*Stream, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	raw, err := json.Marshal(chatRequest{Message: message, ConversationID: conversationID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, true)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	logRequest(req)

	start := time.Now()
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	logResponse(resp, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.handleUnauthorized()
		return nil, ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readResponse(resp)
		resp.Body.Close()
		return nil, errorFromResponse(resp.StatusCode, body)
	}

	return &Stream{
		events: NewEventReader(resp.Body),
		body:   resp.Body,
	}, nil
}
