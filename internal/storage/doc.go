// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides a local SQLite cache of backend data.
//
// The cache makes the TUI usable offline-ish: the conversation list,
// message history, and the latest dashboard metrics render immediately
// from ~/.pulse/cache.db while fresh data is fetched in the background.
// The backend remains the source of truth; every successful fetch
// overwrites the cached copy.
package storage
