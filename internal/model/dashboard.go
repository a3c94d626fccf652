// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// USER / AUTH TYPES
// =============================================================================

// User is the authenticated account returned by the auth endpoints.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse is the body of a successful login or registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// =============================================================================
// DASHBOARD TYPES
// =============================================================================

// DashboardMetrics holds the pre-aggregated numbers for the metric cards.
type DashboardMetrics struct {
	TotalUsers  int     `json:"totalUsers"`
	Revenue     float64 `json:"revenue"`
	Growth      float64 `json:"growth"`
	ActiveUsers int     `json:"activeUsers"`
}

// ChartDataPoint is one sample of a dashboard time series.
type ChartDataPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ChartData holds the dashboard time series for the selected range.
type ChartData struct {
	Revenue    []ChartDataPoint `json:"revenue"`
	Users      []ChartDataPoint `json:"users"`
	Engagement []ChartDataPoint `json:"engagement"`
}

// =============================================================================
// TIME RANGE
// =============================================================================

// TimeRange is the chart range selector value accepted by the charts endpoint.
type TimeRange string

const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
)

// Ranges lists the selectable ranges in display order.
var Ranges = []TimeRange{Range7d, Range30d, Range90d}

// Valid reports whether the range is one the backend accepts.
func (r TimeRange) Valid() bool {
	switch r {
	case Range7d, Range30d, Range90d:
		return true
	}
	return false
}

// Next cycles to the following range, wrapping around.
func (r TimeRange) Next() TimeRange {
	for i, candidate := range Ranges {
		if candidate == r {
			return Ranges[(i+1)%len(Ranges)]
		}
	}
	return Range7d
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// FormatCurrency formats a dollar amount with thousands separators and no
// fractional digits, matching the dashboard's card formatting.
func FormatCurrency(v float64) string {
	return "$" + FormatNumber(int(v))
}

// FormatNumber formats an integer with comma thousands separators.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var sb strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	if negative {
		return "-" + sb.String()
	}
	return sb.String()
}

// FormatPercent formats a growth rate with one decimal place and a sign.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
