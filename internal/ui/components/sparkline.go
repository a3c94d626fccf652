// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// SPARKLINE COMPONENT
// =============================================================================

// sparkTicks are the eight block heights a data point can render at.
var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a time series as a single-line block chart, scaled to
// the series' own min/max. A flat series renders at mid height so it is
// visible rather than a row of baseline ticks.
func Sparkline(points []model.ChartDataPoint, width int, color lipgloss.AdaptiveColor) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	values := resample(points, width)

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	if max == min {
		for range values {
			sb.WriteRune(sparkTicks[len(sparkTicks)/2])
		}
	} else {
		scale := float64(len(sparkTicks)-1) / (max - min)
		for _, v := range values {
			sb.WriteRune(sparkTicks[int((v-min)*scale+0.5)])
		}
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// resample stretches or shrinks the series to exactly width samples using
// nearest-neighbor selection; dashboard ranges (7/30/90 points) rarely
// match the terminal width.
func resample(points []model.ChartDataPoint, width int) []float64 {
	values := make([]float64, width)
	for i := 0; i < width; i++ {
		idx := i * (len(points) - 1)
		if width > 1 {
			idx /= width - 1
		}
		values[i] = points[idx].Value
	}
	return values
}

// SeriesSummary returns the first and last values of a series, used for the
// range annotations beside a sparkline.
func SeriesSummary(points []model.ChartDataPoint) (first, last float64) {
	if len(points) == 0 {
		return 0, 0
	}
	return points[0].Value, points[len(points)-1].Value
}
