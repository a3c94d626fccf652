// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the tea.Cmd constructors for the chat view. Stream
// events are pulled one per command: each StreamEventMsg handled by Update
// schedules the next pull, so events reach the reconciler in stream order.
package chat

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/storage"
)

// openStreamCmd posts the user message and opens the response stream.
func openStreamCmd(ctx context.Context, client *api.Client, message, conversationID string) tea.Cmd {
	return func() tea.Msg {
		stream, err := client.SendMessage(ctx, message, conversationID)
		if err != nil {
			return StreamFailedMsg{Err: err}
		}
		return StreamOpenedMsg{Stream: stream}
	}
}

// nextEventCmd pulls the next event from the open stream.
func nextEventCmd(stream *api.Stream) tea.Cmd {
	return func() tea.Msg {
		ev, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return StreamClosedMsg{}
			}
			return StreamClosedMsg{Err: err}
		}
		return StreamEventMsg{Event: ev}
	}
}

// loadConversationsCmd refreshes the conversation list from the backend,
// falling back to the cache when the backend is unreachable.
func loadConversationsCmd(ctx context.Context, client *api.Client, cache *storage.Cache) tea.Cmd {
	return func() tea.Msg {
		convs, err := client.ListConversations(ctx)
		if err == nil {
			if cache != nil {
				_ = cache.SaveConversations(ctx, convs)
			}
			return ConversationsLoadedMsg{Conversations: convs}
		}

		if cache != nil {
			if cached, cacheErr := cache.Conversations(ctx); cacheErr == nil && len(cached) > 0 {
				return ConversationsLoadedMsg{Conversations: cached, FromCache: true}
			}
		}
		return ConversationsLoadedMsg{Err: err}
	}
}

// loadHistoryCmd fetches one conversation's history, cache-first fallback.
func loadHistoryCmd(ctx context.Context, client *api.Client, cache *storage.Cache, conversationID string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := client.GetHistory(ctx, conversationID)
		if err == nil {
			if cache != nil {
				_ = cache.SaveHistory(ctx, conversationID, msgs)
			}
			return HistoryLoadedMsg{ConversationID: conversationID, Messages: msgs}
		}

		if cache != nil {
			if cached, cacheErr := cache.History(ctx, conversationID); cacheErr == nil && len(cached) > 0 {
				return HistoryLoadedMsg{ConversationID: conversationID, Messages: cached, FromCache: true}
			}
		}
		return HistoryLoadedMsg{ConversationID: conversationID, Err: err}
	}
}
