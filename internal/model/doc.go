// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the pulse client:
// chat messages and conversations, the stream event variant consumed from the
// assistant service, and the dashboard metric shapes.
//
// All types mirror the backend wire format exactly; JSON tags follow the
// server's snake_case field names except for StreamEvent, which the server
// emits in camelCase.
package model
