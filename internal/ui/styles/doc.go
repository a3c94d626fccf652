// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the pulse TUI.
// All colors use Lip Gloss AdaptiveColor so the same palette reads well
// on light and dark terminals.
package styles
