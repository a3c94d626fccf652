// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// Line-mode output styles. These reuse the TUI palette so `pulse ask`
// and the full-screen client look like the same program.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)
