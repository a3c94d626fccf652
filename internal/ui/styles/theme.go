// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability once at startup.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER / STATUS BAR STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderBrand  lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar              lipgloss.Style
	SidebarTitle         lipgloss.Style
	SidebarItem          lipgloss.Style
	SidebarItemSelected  lipgloss.Style
	SidebarItemTimestamp lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// DASHBOARD STYLES
	// ==========================================================================

	MetricCard      lipgloss.Style
	MetricTitle     lipgloss.Style
	MetricValue     lipgloss.Style
	MetricDeltaUp   lipgloss.Style
	MetricDeltaDown lipgloss.Style
	ChartBox        lipgloss.Style
	ChartTitle      lipgloss.Style
	RangeSelector   lipgloss.Style
	RangeActive     lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox        lipgloss.Style
	FormTitle      lipgloss.Style
	FormLabel      lipgloss.Style
	FormError      lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header and status bar
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sky)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.RoleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SidebarItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo)

	t.SidebarItemTimestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sky)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Dashboard
	t.MetricCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.MetricTitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.MetricValue = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.MetricDeltaUp = lipgloss.NewStyle().
		Foreground(Emerald)

	t.MetricDeltaDown = lipgloss.NewStyle().
		Foreground(Rose)

	t.ChartBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ChartTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.RangeSelector = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.RangeActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose)

	t.ButtonActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 2)

	t.ButtonInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(Overlay).
		Padding(0, 2)

	// Feedback
	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Foreground(Rose).
		Padding(0, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.SuccessStyle = lipgloss.NewStyle().Foreground(Emerald)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Sky)
}
