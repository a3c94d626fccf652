// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the pulse client:
// crash-safe file writing for the session and config files, and UTF-8
// aware string truncation for transcript and sidebar rendering.
package util
