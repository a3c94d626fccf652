// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Indigo - Brand color, selections, focused elements
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// IndigoDeep - Darker indigo for backgrounds
var IndigoDeep = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#312E81"}

// Sky - Info, user highlights, links
var Sky = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}

// Emerald - Success states, positive growth
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, negative growth, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, pending states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Blue tones
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

// Assistant message bubble - Soft indigo tones
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#3F3A5E", Dark: "#E9E4F5"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#A5B4FC", Dark: "#818CF8"}

// =============================================================================
// DASHBOARD COLORS
// =============================================================================

// Chart line and sparkline colors per series
var ChartRevenue = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}
var ChartUsers = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}
var ChartEngagement = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
