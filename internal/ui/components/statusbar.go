// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusStreaming
	StatusLoading
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusStreaming:
		return "Streaming..."
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom bar: current status on the left, key hints on
// the right.
type StatusBar struct {
	Status    Status
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar line.
func (s *StatusBar) View() string {
	left := s.Status.String()

	var hints []string
	for _, sc := range s.Shortcuts {
		hints = append(hints,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
