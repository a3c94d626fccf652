// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Plain-text dashboard command.
//
// Command: dashboard
//
// Examples:
//   pulse dashboard
//   pulse dashboard --range 30d
//   pulse dashboard --json

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/ui/components"
	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

const dashboardSparkWidth = 40

// dashboardDump is the --json output shape.
type dashboardDump struct {
	Metrics *model.DashboardMetrics `json:"metrics"`
	Range   model.TimeRange         `json:"range"`
	Charts  *model.ChartData        `json:"charts"`
}

// HandleDashboard prints the dashboard metrics and chart summaries.
func HandleDashboard(client *api.Client, defaultRange model.TimeRange, args Args) error {
	if !client.IsAuthenticated() {
		return fmt.Errorf("not signed in: run `pulse login` first")
	}

	rng := model.TimeRange(args.Parser.FlagOrDefault("range", string(defaultRange)))
	if !rng.Valid() {
		return fmt.Errorf("invalid range %q: want 7d, 30d or 90d", rng)
	}

	ctx := context.Background()
	metrics, err := client.GetMetrics(ctx)
	if err != nil {
		return err
	}
	charts, err := client.GetCharts(ctx, rng)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(dashboardDump{
			Metrics: metrics,
			Range:   rng,
			Charts:  charts,
		})
	}

	printMetric("Total users   ", model.FormatNumber(metrics.TotalUsers))
	printMetric("Active users  ", model.FormatNumber(metrics.ActiveUsers))
	printMetric("Revenue       ", model.FormatCurrency(metrics.Revenue))
	growth := model.FormatPercent(metrics.Growth)
	if metrics.Growth >= 0 {
		printMetric("Growth        ", successStyle.Render("+"+growth))
	} else {
		printMetric("Growth        ", errorStyle.Render(growth))
	}
	fmt.Println()

	printChart("Revenue    ", charts.Revenue, styles.ChartRevenue)
	printChart("Users      ", charts.Users, styles.ChartUsers)
	printChart("Engagement ", charts.Engagement, styles.ChartEngagement)
	fmt.Println(dimStyle.Render("range: " + string(rng)))
	return nil
}

func printMetric(label, value string) {
	fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
}

func printChart(label string, points []model.ChartDataPoint, color lipgloss.AdaptiveColor) {
	spark := components.Sparkline(points, dashboardSparkWidth, color)
	first, last := components.SeriesSummary(points)
	fmt.Printf("%s%s  %s\n",
		labelStyle.Render(label), spark,
		dimStyle.Render(fmt.Sprintf("%.0f -> %.0f", first, last)))
}
