// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the render throttle used while a response streams in.
// Token events are applied to the reconciler immediately, but the viewport
// only re-renders on a 30fps tick; the StreamingBuffer tracks how much text
// arrived since the last render so idle ticks skip work entirely.
package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

const (
	// streamBatchSize forces a render once this many tokens accumulate,
	// even inside one frame interval.
	streamBatchSize = 15

	// streamFrameInterval caps renders at ~30fps.
	streamFrameInterval = 33 * time.Millisecond
)

// StreamingBuffer batches incoming tokens between renders. Writes happen as
// events arrive; Flush is polled from the render tick and reports whether a
// re-render is due. A mutex guards the buffer so it is safe even if events
// are produced off the main loop.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time
}

// NewStreamingBuffer creates a streaming buffer.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{lastFlush: time.Now()}
}

// Write adds a token to the buffer.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(token)
	sb.tokenCount++
}

// Flush returns the accumulated text if a render is due: either the batch
// size was reached or a frame interval elapsed. Otherwise it returns
// ("", false) and keeps accumulating.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	if sb.tokenCount < streamBatchSize && time.Since(sb.lastFlush) < streamFrameInterval {
		return "", false
	}
	return sb.drainLocked()
}

// ForceFlush returns whatever is buffered regardless of thresholds. Called
// when the stream closes so the final tokens always render.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.drainLocked()
}

// Reset clears the buffer without flushing. Used when canceling a stream.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of tokens waiting to be flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

func (sb *StreamingBuffer) drainLocked() (string, bool) {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
	return content, true
}

// =============================================================================
// STREAMING TICK COMMAND
// =============================================================================

// streamTickCmd schedules the next render tick while streaming.
func streamTickCmd() tea.Cmd {
	return tea.Tick(streamFrameInterval, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
