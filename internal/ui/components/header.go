// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Screen identifies the active top-level view shown in the header tabs.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenChat
)

// String returns the display string for the screen.
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenChat:
		return "Chat"
	default:
		return "Unknown"
	}
}

// Header is the title bar: brand on the left, screen tabs in the middle,
// the signed-in user on the right.
type Header struct {
	Active   Screen
	UserName string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Active: ScreenDashboard,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header line.
func (h *Header) View() string {
	brand := h.theme.HeaderBrand.Render("pulse")

	var tabs []string
	for _, screen := range []Screen{ScreenDashboard, ScreenChat} {
		label := screen.String()
		if screen == h.Active {
			tabs = append(tabs, h.theme.HeaderTitle.Render("["+label+"]"))
		} else {
			tabs = append(tabs, h.theme.ShortcutDesc.Render(" "+label+" "))
		}
	}

	left := brand + "  " + strings.Join(tabs, " ")
	right := ""
	if h.UserName != "" {
		right = h.theme.ShortcutDesc.Render(h.UserName)
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(h.Width).Render(line)
}
