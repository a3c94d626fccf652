// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pulsedash/pulse-tui/internal/model"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestCache_ConversationsRoundTrip(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	in := []model.Conversation{
		{ID: "c1", UserID: "u1", Title: "first", CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-time.Hour)},
		{ID: "c2", UserID: "u1", Title: "second", CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
	}
	if err := cache.SaveConversations(ctx, in); err != nil {
		t.Fatalf("SaveConversations() error = %v", err)
	}

	out, err := cache.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d conversations, want 2", len(out))
	}
	// Most recently updated first.
	if out[0].ID != "c2" || out[1].ID != "c1" {
		t.Errorf("order = [%s %s], want [c2 c1]", out[0].ID, out[1].ID)
	}
	if out[0].Title != "second" {
		t.Errorf("Title = %q, want second", out[0].Title)
	}
	if !out[0].UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", out[0].UpdatedAt, now)
	}
}

func TestCache_SaveConversationsReplacesList(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	now := time.Now()

	cache.SaveConversations(ctx, []model.Conversation{
		{ID: "stale", CreatedAt: now, UpdatedAt: now},
	})
	cache.SaveConversations(ctx, []model.Conversation{
		{ID: "fresh", CreatedAt: now, UpdatedAt: now},
	})

	out, err := cache.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "fresh" {
		t.Errorf("conversations = %+v, want single fresh entry", out)
	}
}

func TestCache_EmptyConversations(t *testing.T) {
	cache := testCache(t)
	out, err := cache.Conversations(context.Background())
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d conversations, want 0", len(out))
	}
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestCache_HistoryRoundTrip(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	in := []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "hi", CreatedAt: now},
		{ID: "m2", Role: model.RoleAssistant, Content: "hello", CreatedAt: now},
		{ID: "m3", Role: model.RoleUser, Content: "how are you", CreatedAt: now},
	}
	if err := cache.SaveHistory(ctx, "c1", in); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}

	out, err := cache.History(ctx, "c1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d messages, want 3", len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID {
			t.Errorf("message[%d].ID = %s, want %s", i, out[i].ID, in[i].ID)
		}
	}
	if out[1].Role != model.RoleAssistant {
		t.Errorf("message[1].Role = %v, want assistant", out[1].Role)
	}
	if out[0].ConversationID != "c1" {
		t.Errorf("ConversationID = %q, want c1", out[0].ConversationID)
	}
}

func TestCache_HistoryIsolatedPerConversation(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	now := time.Now()

	cache.SaveHistory(ctx, "c1", []model.Message{{ID: "m1", Role: model.RoleUser, Content: "a", CreatedAt: now}})
	cache.SaveHistory(ctx, "c2", []model.Message{{ID: "m2", Role: model.RoleUser, Content: "b", CreatedAt: now}})

	// Re-saving c1 must not touch c2.
	cache.SaveHistory(ctx, "c1", []model.Message{{ID: "m3", Role: model.RoleUser, Content: "c", CreatedAt: now}})

	h1, _ := cache.History(ctx, "c1")
	h2, _ := cache.History(ctx, "c2")
	if len(h1) != 1 || h1[0].ID != "m3" {
		t.Errorf("c1 history = %+v, want [m3]", h1)
	}
	if len(h2) != 1 || h2[0].ID != "m2" {
		t.Errorf("c2 history = %+v, want [m2]", h2)
	}
}

func TestCache_SaveHistoryRequiresConversationID(t *testing.T) {
	cache := testCache(t)
	if err := cache.SaveHistory(context.Background(), "", nil); err == nil {
		t.Error("SaveHistory() with empty conversation id should fail")
	}
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestCache_MetricsSnapshot(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	if _, err := cache.Metrics(ctx, time.Hour); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Metrics() on empty cache error = %v, want ErrCacheMiss", err)
	}

	in := &model.DashboardMetrics{TotalUsers: 1200, Revenue: 45000.50, Growth: 12.5, ActiveUsers: 300}
	if err := cache.SaveMetrics(ctx, in); err != nil {
		t.Fatalf("SaveMetrics() error = %v", err)
	}

	out, err := cache.Metrics(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if out.TotalUsers != 1200 || out.Revenue != 45000.50 {
		t.Errorf("Metrics() = %+v, want %+v", out, in)
	}
}

func TestCache_SnapshotTTLExpiry(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	if err := cache.SaveMetrics(ctx, &model.DashboardMetrics{TotalUsers: 1}); err != nil {
		t.Fatal(err)
	}
	// A negative TTL makes any entry stale without sleeping in the test.
	if _, err := cache.Metrics(ctx, -time.Second); !errors.Is(err, ErrCacheExpired) {
		t.Errorf("expired Metrics() error = %v, want ErrCacheExpired", err)
	}
	// TTL of zero disables expiry.
	if _, err := cache.Metrics(ctx, 0); err != nil {
		t.Errorf("Metrics() with ttl 0 error = %v", err)
	}
}

func TestCache_ChartsPerRange(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	week := &model.ChartData{Revenue: []model.ChartDataPoint{{Date: "2025-01-01", Value: 10}}}
	month := &model.ChartData{Revenue: []model.ChartDataPoint{{Date: "2025-01-01", Value: 99}}}
	cache.SaveCharts(ctx, model.Range7d, week)
	cache.SaveCharts(ctx, model.Range30d, month)

	out, err := cache.Charts(ctx, model.Range7d, time.Hour)
	if err != nil {
		t.Fatalf("Charts() error = %v", err)
	}
	if len(out.Revenue) != 1 || out.Revenue[0].Value != 10 {
		t.Errorf("7d charts = %+v, want week data", out)
	}

	if _, err := cache.Charts(ctx, model.Range90d, time.Hour); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Charts(90d) error = %v, want ErrCacheMiss", err)
	}
}
