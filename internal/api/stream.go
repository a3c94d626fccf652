// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// STREAM EVENT DECODER
// =============================================================================

// MaxRecordSize is the maximum allowed size for a single stream record.
const MaxRecordSize = 64 * 1024

// dataPrefix marks the lines of the stream that carry an event payload.
// All other lines (comments, keepalives, blank separators) are ignored.
var dataPrefix = []byte("data: ")

// EventReader decodes the assistant service's streamed response into an
// ordered sequence of StreamEvents.
//
// The stream is framed as newline-delimited records; only lines starting
// with "data: " are records, and each record's payload is one JSON object.
// Records may be split across transport chunks at arbitrary byte boundaries:
// the buffered reader carries the partial tail of one chunk into the next, so
// an unterminated line is never surfaced as a record. Payloads that fail to
// decode, and records with an unknown type, are dropped silently — a partial
// JSON fragment and a corrupt record are indistinguishable at this layer.
//
// An EventReader is not restartable; a new stream requires a new reader.
type EventReader struct {
	reader *bufio.Reader
	done   bool
}

// NewEventReader creates an event reader over the raw response body.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{
		reader: bufio.NewReader(r),
	}
}

// Next returns the next decoded event in arrival order.
// Returns io.EOF when the underlying transport closes; any trailing
// unterminated line is discarded, never emitted.
func (er *EventReader) Next() (model.StreamEvent, error) {
	if er.done {
		return model.StreamEvent{}, io.EOF
	}

	for {
		line, err := er.reader.ReadBytes('\n')
		if err != nil {
			er.done = true
			if err == io.EOF {
				// A partial line at EOF is an unterminated record: drop it.
				return model.StreamEvent{}, io.EOF
			}
			return model.StreamEvent{}, fmt.Errorf("stream read failed: %w", err)
		}

		if len(line) > MaxRecordSize {
			er.done = true
			return model.StreamEvent{}, fmt.Errorf("stream record too large: %d bytes", len(line))
		}

		line = bytes.TrimRight(line, "\r\n")
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}

		ev, err := model.ParseStreamEvent(line[len(dataPrefix):])
		if err != nil {
			// Malformed or unknown-type record: skip and keep reading.
			continue
		}
		return ev, nil
	}
}

// Drain consumes the remaining events, returning them in order. Used by the
// one-shot CLI paths; interactive consumers pull with Next instead.
func (er *EventReader) Drain() ([]model.StreamEvent, error) {
	var events []model.StreamEvent
	for {
		ev, err := er.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}
