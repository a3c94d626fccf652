// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/util"
)

// ErrNoSession indicates no persisted session exists (not logged in).
var ErrNoSession = errors.New("no session: not logged in")

// sessionFileName under the pulse data directory.
const sessionFileName = "session.json"

// =============================================================================
// SESSION
// =============================================================================

// Session is an authenticated session: the bearer token and the user it
// was issued to. CreatedAt records when the login happened, for display
// in `pulse whoami`.
type Session struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// Valid reports whether the session carries a usable token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the session file. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store over the default session path, ~/.pulse/session.json.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, ".pulse", sessionFileName)), nil
}

// NewStoreAt creates a store over an explicit path. Used in tests.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted session. Returns ErrNoSession when the file
// does not exist. A corrupt file is treated as no session after being
// removed, so a bad write never wedges the client in a broken state.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		os.Remove(s.path)
		return nil, ErrNoSession
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save persists the session with 0600 permissions under a 0700 directory.
func (s *Store) Save(sess *Session) error {
	if !sess.Valid() {
		return errors.New("refusing to save session without token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := util.AtomicWriteFilePrivate(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
