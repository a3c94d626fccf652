// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/config"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/session"
	"github.com/pulsedash/pulse-tui/internal/ui/login"
)

func newTestApp(t *testing.T) (*App, *session.Store) {
	t.Helper()
	store := session.NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
	a := NewApp(AppOptions{
		Config:   config.Default(),
		Client:   api.NewClient("http://127.0.0.1:1"),
		Sessions: store,
	})
	return a, store
}

func TestStartsAtLoginWithoutSession(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, screenLogin, a.active)
	assert.Nil(t, a.dashboard)
	assert.Nil(t, a.chat)
}

func TestStartsAtDashboardWithSavedSession(t *testing.T) {
	store := session.NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&session.Session{
		Token: "tok-1",
		User:  model.User{ID: "u1", Name: "Ada"},
	}))

	client := api.NewClient("http://127.0.0.1:1")
	a := NewApp(AppOptions{
		Config:   config.Default(),
		Client:   client,
		Sessions: store,
	})

	assert.Equal(t, screenDashboard, a.active)
	assert.Equal(t, "tok-1", client.Token())
	assert.Equal(t, "Ada", a.userName)
	require.NotNil(t, a.dashboard)
	require.NotNil(t, a.chat)
}

func TestAuthSuccessEntersDashboardAndSavesSession(t *testing.T) {
	a, store := newTestApp(t)

	_, cmd := a.Update(login.AuthSuccessMsg{Auth: &model.AuthResponse{
		Token: "tok-2",
		User:  model.User{ID: "u2", Name: "Grace"},
	}})
	require.NotNil(t, cmd)

	assert.Equal(t, screenDashboard, a.active)
	assert.Equal(t, "Grace", a.userName)
	require.NotNil(t, a.chat)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", sess.Token)
	assert.Equal(t, "Grace", sess.User.Name)
}

func TestSessionLossDropsToLogin(t *testing.T) {
	store := session.NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&session.Session{Token: "tok-1"}))

	client := api.NewClient("http://127.0.0.1:1")
	a := NewApp(AppOptions{
		Config:   config.Default(),
		Client:   client,
		Sessions: store,
	})
	require.Equal(t, screenDashboard, a.active)

	// The 401 handler fires on a command goroutine; the next Update
	// observes the flag regardless of the message it carries.
	a.sessionLost.Store(true)
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	assert.Equal(t, screenLogin, a.active)
	assert.Nil(t, a.dashboard)
	assert.Nil(t, a.chat)
	assert.Empty(t, a.userName)
}

func TestUnauthorizedResponseClearsStoredSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	store := session.NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&session.Session{Token: "tok-1"}))

	client := api.NewClient(srv.URL)
	a := NewApp(AppOptions{
		Config:   config.Default(),
		Client:   client,
		Sessions: store,
	})
	require.Equal(t, screenDashboard, a.active)

	_, err := client.ListConversations(context.Background())
	require.ErrorIs(t, err, api.ErrSessionExpired)

	// The installed handler wiped the on-disk session and flagged the
	// loop; the next Update drops to the login gate.
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, screenLogin, a.active)
}

func TestToggleScreenSwitchesTabs(t *testing.T) {
	store := session.NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&session.Session{Token: "tok-1"}))

	a := NewApp(AppOptions{
		Config:   config.Default(),
		Client:   api.NewClient("http://127.0.0.1:1"),
		Sessions: store,
	})
	require.Equal(t, screenDashboard, a.active)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, screenChat, a.active)
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, screenDashboard, a.active)
}

func TestToggleIgnoredOnLoginScreen(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, screenLogin, a.active)
}

func TestQuitKeyQuits(t *testing.T) {
	a, _ := newTestApp(t)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
