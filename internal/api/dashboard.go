// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// DASHBOARD ENDPOINTS
// =============================================================================

// GetMetrics fetches the pre-aggregated dashboard numbers.
func (c *Client) GetMetrics(ctx context.Context) (*model.DashboardMetrics, error) {
	var metrics model.DashboardMetrics
	if err := c.doJSONWithRetry(ctx, http.MethodGet, "/api/dashboard/metrics", nil, &metrics, true); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// GetCharts fetches the dashboard time series for the given range.
func (c *Client) GetCharts(ctx context.Context, r model.TimeRange) (*model.ChartData, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid chart range %q", r)
	}

	path := "/api/dashboard/charts?range=" + url.QueryEscape(string(r))
	var charts model.ChartData
	if err := c.doJSONWithRetry(ctx, http.MethodGet, path, nil, &charts, true); err != nil {
		return nil, err
	}
	return &charts, nil
}
