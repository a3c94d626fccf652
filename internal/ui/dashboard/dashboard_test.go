// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

func testModel() *Model {
	return New(Options{
		Client:       api.NewClient("http://127.0.0.1:1"),
		Theme:        styles.NewTheme(),
		DefaultRange: model.Range7d,
	})
}

func TestNew_InvalidRangeFallsBack(t *testing.T) {
	m := New(Options{
		Client:       api.NewClient(""),
		Theme:        styles.NewTheme(),
		DefaultRange: model.TimeRange("bogus"),
	})
	if m.Range() != model.Range7d {
		t.Errorf("Range() = %v, want 7d fallback", m.Range())
	}
}

func TestUpdate_MetricsLoaded(t *testing.T) {
	m := testModel()
	m, _ = m.Update(MetricsLoadedMsg{
		Metrics: &model.DashboardMetrics{TotalUsers: 42, Revenue: 100, Growth: 5, ActiveUsers: 7},
	})

	if m.metrics == nil || m.metrics.TotalUsers != 42 {
		t.Errorf("metrics = %+v", m.metrics)
	}
	if m.loading {
		t.Error("loading should clear once metrics arrive")
	}
}

func TestUpdate_ChartsStoredPerRange(t *testing.T) {
	m := testModel()
	m, _ = m.Update(ChartsLoadedMsg{
		Range:  model.Range30d,
		Charts: &model.ChartData{Revenue: []model.ChartDataPoint{{Value: 1}}},
	})

	if _, ok := m.charts[model.Range30d]; !ok {
		t.Error("charts should be stored under their range")
	}
	if _, ok := m.charts[model.Range7d]; ok {
		t.Error("7d charts should not exist yet")
	}
}

func TestUpdate_RangeCycleFetchesMissingCharts(t *testing.T) {
	m := testModel()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if m.Range() != model.Range30d {
		t.Errorf("Range() = %v, want 30d after one cycle", m.Range())
	}
	if cmd == nil {
		t.Error("cycling to an unloaded range should fetch its charts")
	}

	// Cycling to a range whose charts are already loaded fetches nothing.
	m.charts[model.Range90d] = &model.ChartData{}
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Range() != model.Range90d {
		t.Errorf("Range() = %v, want 90d", m.Range())
	}
	if cmd != nil {
		t.Error("cached range should not refetch")
	}
}

func TestUpdate_ErrorKept(t *testing.T) {
	m := testModel()
	m, _ = m.Update(MetricsLoadedMsg{Err: errors.New("backend down")})
	if m.lastErr == nil {
		t.Error("error should be retained for display")
	}
}

func TestView_RendersCardsAndCharts(t *testing.T) {
	m := testModel()
	m.width = 100
	m.height = 30
	m, _ = m.Update(MetricsLoadedMsg{
		Metrics: &model.DashboardMetrics{TotalUsers: 1200, Revenue: 45000, Growth: 12.5, ActiveUsers: 320},
	})
	m, _ = m.Update(ChartsLoadedMsg{
		Range: model.Range7d,
		Charts: &model.ChartData{
			Revenue: []model.ChartDataPoint{{Value: 1}, {Value: 9}},
			Users:   []model.ChartDataPoint{{Value: 5}, {Value: 6}},
		},
	})

	out := m.View()
	if !strings.Contains(out, "1,200") {
		t.Error("view should show the formatted user count")
	}
	if !strings.Contains(out, "$45,000") {
		t.Error("view should show the formatted revenue")
	}
	if !strings.Contains(out, "Revenue") {
		t.Error("view should show the chart titles")
	}
}

func TestView_CacheNotice(t *testing.T) {
	m := testModel()
	m.width = 80
	m, _ = m.Update(MetricsLoadedMsg{Metrics: &model.DashboardMetrics{}, FromCache: true})
	if !strings.Contains(m.View(), "cached") {
		t.Error("cache fallback should be visible")
	}
}
