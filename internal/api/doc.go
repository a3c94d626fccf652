// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Pulse backend.
//
// The client covers three surfaces:
//   - auth: register/login, producing a bearer token
//   - dashboard: pre-aggregated metrics and chart time series
//   - chat: conversation listing, history, and the streamed assistant
//     response (see stream.go for the event decoder)
//
// Every authenticated request carries the bearer token; a 401 from any
// endpoint invalidates the session through the client's unauthorized handler
// rather than being handled ad hoc at call sites.
package api
