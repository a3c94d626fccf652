// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard provides the metrics dashboard view for the pulse TUI:
// four stat cards over sparkline charts, with a cycling time-range selector.
// Data loads backend-first with the sqlite cache as fallback, so the screen
// paints even when the API is briefly unreachable.
package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/storage"
	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// MetricsLoadedMsg delivers the dashboard stat cards data.
type MetricsLoadedMsg struct {
	Metrics   *model.DashboardMetrics
	FromCache bool
	Err       error
}

// ChartsLoadedMsg delivers chart data for one range.
type ChartsLoadedMsg struct {
	Range     model.TimeRange
	Charts    *model.ChartData
	FromCache bool
	Err       error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard view.
type Model struct {
	client *api.Client
	cache  *storage.Cache
	theme  *styles.Theme

	metrics *model.DashboardMetrics
	charts  map[model.TimeRange]*model.ChartData
	rng     model.TimeRange

	cacheTTL time.Duration

	loading   bool
	fromCache bool
	lastErr   error

	width  int
	height int
}

// Options configures the dashboard view.
type Options struct {
	Client       *api.Client
	Cache        *storage.Cache // nil disables the local cache
	Theme        *styles.Theme
	DefaultRange model.TimeRange
	CacheTTL     time.Duration
}

// New creates the dashboard view model.
func New(opts Options) *Model {
	rng := opts.DefaultRange
	if !rng.Valid() {
		rng = model.Range7d
	}
	return &Model{
		client:   opts.Client,
		cache:    opts.Cache,
		theme:    opts.Theme,
		charts:   make(map[model.TimeRange]*model.ChartData),
		rng:      rng,
		cacheTTL: opts.CacheTTL,
		loading:  true,
	}
}

// Init fetches metrics and the charts for the default range.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadMetricsCmd(), m.loadChartsCmd(m.rng))
}

// Range returns the currently selected time range.
func (m *Model) Range() model.TimeRange {
	return m.rng
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) loadMetricsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		metrics, err := m.client.GetMetrics(ctx)
		if err == nil {
			if m.cache != nil {
				_ = m.cache.SaveMetrics(ctx, metrics)
			}
			return MetricsLoadedMsg{Metrics: metrics}
		}

		if m.cache != nil {
			if cached, cacheErr := m.cache.Metrics(ctx, m.cacheTTL); cacheErr == nil {
				return MetricsLoadedMsg{Metrics: cached, FromCache: true}
			}
		}
		return MetricsLoadedMsg{Err: err}
	}
}

func (m *Model) loadChartsCmd(r model.TimeRange) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		charts, err := m.client.GetCharts(ctx, r)
		if err == nil {
			if m.cache != nil {
				_ = m.cache.SaveCharts(ctx, r, charts)
			}
			return ChartsLoadedMsg{Range: r, Charts: charts}
		}

		if m.cache != nil {
			if cached, cacheErr := m.cache.Charts(ctx, r, m.cacheTTL); cacheErr == nil {
				return ChartsLoadedMsg{Range: r, Charts: cached, FromCache: true}
			}
		}
		return ChartsLoadedMsg{Range: r, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles dashboard messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			// Manual refresh.
			m.loading = true
			return m, tea.Batch(m.loadMetricsCmd(), m.loadChartsCmd(m.rng))
		case "tab", "t":
			m.rng = m.rng.Next()
			if _, ok := m.charts[m.rng]; !ok {
				m.loading = true
				return m, m.loadChartsCmd(m.rng)
			}
			return m, nil
		}

	case MetricsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		m.lastErr = nil
		m.metrics = msg.Metrics
		m.fromCache = msg.FromCache
		return m, nil

	case ChartsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		m.lastErr = nil
		m.charts[msg.Range] = msg.Charts
		if msg.FromCache {
			m.fromCache = true
		}
		return m, nil
	}
	return m, nil
}
