// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the authentication gate for the pulse TUI: a
// login form with a register variant, shown whenever no valid session
// exists. On success it emits an AuthSuccessMsg for the app model to
// persist and swap screens.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// AuthSuccessMsg signals a completed login or registration.
type AuthSuccessMsg struct {
	Auth *model.AuthResponse
}

// authFailedMsg carries a failed attempt's error back to the form.
type authFailedMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

// mode selects between the login and register forms.
type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// Field indices within the form.
const (
	fieldEmail = iota
	fieldPassword
	fieldName // register only
)

// Model is the Bubble Tea model for the auth gate.
type Model struct {
	client *api.Client
	theme  *styles.Theme

	mode    mode
	inputs  []textinput.Model
	focused int

	submitting bool
	lastErr    error

	width  int
	height int
}

// New creates the auth gate model.
func New(client *api.Client, theme *styles.Theme) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "display name"
	name.CharLimit = 64

	return &Model{
		client: client,
		theme:  theme,
		inputs: []textinput.Model{email, password, name},
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// fieldCount returns how many inputs the active form uses.
func (m *Model) fieldCount() int {
	if m.mode == modeRegister {
		return 3
	}
	return 2
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles auth form messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authFailedMsg:
		m.submitting = false
		m.lastErr = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focusField((m.focused + 1) % m.fieldCount())
			return m, nil
		case "shift+tab", "up":
			m.focusField((m.focused - 1 + m.fieldCount()) % m.fieldCount())
			return m, nil
		case "ctrl+r":
			m.toggleMode()
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
}

func (m *Model) toggleMode() {
	if m.mode == modeLogin {
		m.mode = modeRegister
	} else {
		m.mode = modeLogin
		if m.focused >= m.fieldCount() {
			m.focusField(fieldEmail)
		}
	}
	m.lastErr = nil
}

// submit validates the form and fires the auth request.
func (m *Model) submit() (*Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	name := strings.TrimSpace(m.inputs[fieldName].Value())

	if email == "" || !strings.Contains(email, "@") {
		m.lastErr = errInvalidEmail
		return m, nil
	}
	if password == "" {
		m.lastErr = errEmptyPassword
		return m, nil
	}
	if m.mode == modeRegister && name == "" {
		m.lastErr = errEmptyName
		return m, nil
	}

	m.submitting = true
	m.lastErr = nil
	register := m.mode == modeRegister

	return m, func() tea.Msg {
		ctx := context.Background()
		var auth *model.AuthResponse
		var err error
		if register {
			auth, err = m.client.Register(ctx, email, password, name)
		} else {
			auth, err = m.client.Login(ctx, email, password)
		}
		if err != nil {
			return authFailedMsg{Err: err}
		}
		return AuthSuccessMsg{Auth: auth}
	}
}
