// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/ui/components"
	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// View renders the dashboard screen.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderRangeSelector())

	if m.metrics != nil {
		sections = append(sections, m.renderMetricCards())
	} else if m.loading {
		sections = append(sections, m.theme.ThinkingText.Render("Loading metrics..."))
	}

	if charts, ok := m.charts[m.rng]; ok {
		sections = append(sections, m.renderCharts(charts))
	}

	if m.fromCache {
		sections = append(sections, m.theme.WarningStyle.Render("showing cached data"))
	}
	if m.lastErr != nil {
		sections = append(sections, m.theme.ErrorBox.Render(m.lastErr.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// METRIC CARDS
// =============================================================================

func (m *Model) renderMetricCards() string {
	cardWidth := (m.width - 12) / 4
	if cardWidth < 14 {
		cardWidth = 14
	}

	growthStyle := m.theme.MetricDeltaUp
	growthPrefix := "+"
	if m.metrics.Growth < 0 {
		growthStyle = m.theme.MetricDeltaDown
		growthPrefix = ""
	}

	cards := []string{
		m.renderCard("Total Users", model.FormatNumber(m.metrics.TotalUsers), cardWidth),
		m.renderCard("Revenue", model.FormatCurrency(m.metrics.Revenue), cardWidth),
		m.theme.MetricCard.Width(cardWidth).Render(
			m.theme.MetricTitle.Render("Growth") + "\n" +
				growthStyle.Render(growthPrefix+model.FormatPercent(m.metrics.Growth))),
		m.renderCard("Active Now", model.FormatNumber(m.metrics.ActiveUsers), cardWidth),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) renderCard(title, value string, width int) string {
	return m.theme.MetricCard.Width(width).Render(
		m.theme.MetricTitle.Render(title) + "\n" + m.theme.MetricValue.Render(value))
}

// =============================================================================
// CHARTS
// =============================================================================

func (m *Model) renderCharts(charts *model.ChartData) string {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}

	rows := []struct {
		title  string
		points []model.ChartDataPoint
		color  lipgloss.AdaptiveColor
	}{
		{"Revenue", charts.Revenue, styles.ChartRevenue},
		{"Users", charts.Users, styles.ChartUsers},
		{"Engagement", charts.Engagement, styles.ChartEngagement},
	}

	var out []string
	for _, row := range rows {
		if len(row.points) == 0 {
			continue
		}
		first, last := components.SeriesSummary(row.points)
		header := m.theme.ChartTitle.Render(row.title) +
			m.theme.RangeSelector.Render(fmt.Sprintf("%.0f -> %.0f", first, last))
		spark := components.Sparkline(row.points, chartWidth, row.color)
		out = append(out, m.theme.ChartBox.Width(m.width-4).Render(header+"\n"+spark))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// =============================================================================
// RANGE SELECTOR
// =============================================================================

func (m *Model) renderRangeSelector() string {
	var parts []string
	for _, r := range model.Ranges {
		if r == m.rng {
			parts = append(parts, m.theme.RangeActive.Render(string(r)))
		} else {
			parts = append(parts, m.theme.RangeSelector.Render(string(r)))
		}
	}
	hint := m.theme.ShortcutDesc.Render("  tab: cycle range  r: refresh")
	return strings.Join(parts, " ") + hint
}
