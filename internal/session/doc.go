// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the authenticated session across process runs.
//
// The session (bearer token plus the user it belongs to) lives in
// ~/.pulse/session.json with 0600 permissions. Writes go through an
// atomic rename so a crash never leaves a truncated credentials file.
//
// # Usage
//
//	store, _ := session.NewStore()
//	sess, err := store.Load()
//	if errors.Is(err, session.ErrNoSession) {
//	    // not logged in
//	}
//
// On a 401 from the backend, Clear removes the file so the next run
// starts logged out rather than retrying a dead token.
package session
