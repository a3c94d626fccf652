// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the shared visual components for the pulse
// TUI: the header bar, status bar, loading spinner, and the sparkline
// renderer the dashboard charts are built from.
package components
