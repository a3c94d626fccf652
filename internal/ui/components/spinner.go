// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT
// =============================================================================

// Spinner is the "assistant is thinking" indicator shown between submitting
// a message and the first content event.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
}

// NewSpinner creates a spinner with a braille animation.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return Spinner{
		spinner: s,
		message: "Thinking",
	}
}

// Start activates the spinner and returns its tick command.
func (s *Spinner) Start() tea.Cmd {
	s.active = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.active
}

// SetMessage changes the label next to the animation.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Update advances the animation. It only consumes spinner tick messages.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, or nothing when inactive.
func (s *Spinner) View() string {
	if !s.active {
		return ""
	}
	elapsed := time.Since(s.startTime).Round(time.Second)
	if elapsed < time.Second {
		return s.spinner.View() + " " + s.message
	}
	return s.spinner.View() + " " + s.message + " (" + elapsed.String() + ")"
}
