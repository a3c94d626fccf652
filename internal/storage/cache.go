// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrCacheMiss indicates the requested data has never been cached.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheExpired indicates the cached data is older than its TTL.
	ErrCacheExpired = errors.New("cache expired")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      INTEGER NOT NULL,
	position        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages(conversation_id, position);

CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// =============================================================================
// CACHE
// =============================================================================

// Cache is the local SQLite store. Safe for concurrent use; database/sql
// serializes access to the single connection pool.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// SaveConversations replaces the cached conversation list. The list is
// replaced wholesale because the backend response is authoritative.
func (c *Cache) SaveConversations(ctx context.Context, convs []model.Conversation) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM conversations"); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conversations (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, conv := range convs {
		_, err := stmt.ExecContext(ctx, conv.ID, conv.UserID, conv.Title,
			conv.CreatedAt.Unix(), conv.UpdatedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert conversation %s: %w", conv.ID, err)
		}
	}

	return tx.Commit()
}

// Conversations returns the cached conversation list, most recently
// updated first. An empty cache returns an empty slice, not an error.
func (c *Cache) Conversations(ctx context.Context) ([]model.Conversation, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var convs []model.Conversation
	for rows.Next() {
		var conv model.Conversation
		var createdAt, updatedAt int64
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conv.CreatedAt = time.Unix(createdAt, 0)
		conv.UpdatedAt = time.Unix(updatedAt, 0)
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// =============================================================================
// MESSAGE HISTORY
// =============================================================================

// SaveHistory replaces the cached history for one conversation, preserving
// the backend's message order.
func (c *Cache) SaveHistory(ctx context.Context, conversationID string, msgs []model.Message) error {
	if conversationID == "" {
		return errors.New("conversation id required")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM messages WHERE conversation_id = ?", conversationID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, created_at, position)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range msgs {
		_, err := stmt.ExecContext(ctx, msg.ID, conversationID, string(msg.Role),
			msg.Content, msg.CreatedAt.Unix(), i)
		if err != nil {
			return fmt.Errorf("failed to insert message %s: %w", msg.ID, err)
		}
	}

	return tx.Commit()
}

// History returns the cached messages for a conversation in original order.
func (c *Cache) History(ctx context.Context, conversationID string) ([]model.Message, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY position`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var msg model.Message
		var role string
		var createdAt int64
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.ConversationID = conversationID
		msg.Role = model.Role(role)
		msg.CreatedAt = time.Unix(createdAt, 0)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// =============================================================================
// DASHBOARD SNAPSHOTS
// =============================================================================

// Snapshot keys for the dashboard payloads.
const (
	keyMetrics     = "metrics"
	keyChartPrefix = "charts:"
)

// SaveMetrics caches the latest dashboard metrics.
func (c *Cache) SaveMetrics(ctx context.Context, m *model.DashboardMetrics) error {
	return c.saveSnapshot(ctx, keyMetrics, m)
}

// Metrics returns cached metrics no older than ttl.
func (c *Cache) Metrics(ctx context.Context, ttl time.Duration) (*model.DashboardMetrics, error) {
	var m model.DashboardMetrics
	if err := c.loadSnapshot(ctx, keyMetrics, ttl, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveCharts caches chart data for one time range.
func (c *Cache) SaveCharts(ctx context.Context, r model.TimeRange, data *model.ChartData) error {
	return c.saveSnapshot(ctx, keyChartPrefix+string(r), data)
}

// Charts returns cached chart data for a range, no older than ttl.
func (c *Cache) Charts(ctx context.Context, r model.TimeRange, ttl time.Duration) (*model.ChartData, error) {
	var data model.ChartData
	if err := c.loadSnapshot(ctx, keyChartPrefix+string(r), ttl, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Cache) saveSnapshot(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (c *Cache) loadSnapshot(ctx context.Context, key string, ttl time.Duration, out any) error {
	var payload string
	var fetchedAt int64
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM snapshots WHERE key = ?", key).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to query snapshot: %w", err)
	}

	// ttl of zero disables expiry; the CLI paths pass the configured TTL.
	if ttl != 0 && time.Since(time.Unix(fetchedAt, 0)) > ttl {
		return ErrCacheExpired
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return nil
}
