// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errInvalidEmail  = errors.New("enter a valid email address")
	errEmptyPassword = errors.New("password must not be empty")
	errEmptyName     = errors.New("display name must not be empty")
)

// View renders the auth form centered in the terminal.
func (m *Model) View() string {
	var b strings.Builder

	title := "Sign in to pulse"
	if m.mode == modeRegister {
		title = "Create a pulse account"
	}
	b.WriteString(m.theme.FormTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n")

	if m.mode == modeRegister {
		b.WriteString("\n")
		b.WriteString(m.theme.FormLabel.Render("Name"))
		b.WriteString("\n")
		b.WriteString(m.inputs[fieldName].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(m.theme.InfoStyle.Render("Signing in..."))
	} else {
		button := "[ Sign in ]"
		if m.mode == modeRegister {
			button = "[ Register ]"
		}
		b.WriteString(m.theme.ButtonActive.Render(button))
	}

	if m.lastErr != nil {
		b.WriteString("\n\n")
		b.WriteString(m.theme.FormError.Render(m.lastErr.Error()))
	}

	b.WriteString("\n\n")
	hint := "ctrl+r: register instead  tab: next field  enter: submit"
	if m.mode == modeRegister {
		hint = "ctrl+r: sign in instead  tab: next field  enter: submit"
	}
	b.WriteString(m.theme.ShortcutDesc.Render(hint))

	form := m.theme.FormBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
