// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole(t *testing.T) {
	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Error("user and assistant must be valid roles")
	}
	if Role("system").Valid() {
		t.Error("system is not a transcript role")
	}
	if RoleUser.DisplayName() != "You" {
		t.Errorf("DisplayName = %q, want You", RoleUser.DisplayName())
	}
	if RoleAssistant.DisplayName() != "Assistant" {
		t.Errorf("DisplayName = %q, want Assistant", RoleAssistant.DisplayName())
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_GeneratesProvisionalID(t *testing.T) {
	m1 := NewUserMessage("c1", "hello")
	m2 := NewUserMessage("c1", "hello")

	if !strings.HasPrefix(m1.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", m1.ID)
	}
	if m1.ID == m2.ID {
		t.Error("provisional ids must be unique")
	}
	if m1.Role != RoleUser {
		t.Errorf("Role = %v, want user", m1.Role)
	}
	if m1.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short unchanged", "hello", 10, "hello"},
		{"truncated", "hello wonderful world", 10, "hello w..."},
		{"newlines flattened", "line one\nline two", 50, "line one line two"},
		{"crlf stripped", "a\r\nb", 50, "a b"},
		{"multibyte safe", "héllo wörld étc", 8, "héllo..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Message{Content: tc.content}
			if got := m.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_GetTitle(t *testing.T) {
	c := Conversation{Title: "Budget talk"}
	if c.GetTitle() != "Budget talk" {
		t.Errorf("GetTitle() = %q", c.GetTitle())
	}
	c.Title = ""
	if c.GetTitle() != "New Conversation" {
		t.Errorf("GetTitle() = %q, want default", c.GetTitle())
	}
}

func TestSortConversations(t *testing.T) {
	now := time.Now()
	convs := []Conversation{
		{ID: "old", UpdatedAt: now.Add(-time.Hour)},
		{ID: "new", UpdatedAt: now},
		{ID: "mid", UpdatedAt: now.Add(-time.Minute)},
	}

	SortConversations(convs)

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if convs[i].ID != id {
			t.Errorf("convs[%d].ID = %s, want %s", i, convs[i].ID, id)
		}
	}
}

func TestFindConversation(t *testing.T) {
	convs := []Conversation{{ID: "a"}, {ID: "b"}}
	if got := FindConversation(convs, "b"); got == nil || got.ID != "b" {
		t.Errorf("FindConversation(b) = %v", got)
	}
	if got := FindConversation(convs, "zzz"); got != nil {
		t.Errorf("FindConversation(zzz) = %v, want nil", got)
	}
}

// =============================================================================
// STREAM EVENT TESTS
// =============================================================================

func TestParseStreamEvent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    StreamEvent
		wantErr error
	}{
		{
			"start event",
			`{"type":"start","conversationId":"c1"}`,
			StreamEvent{Type: EventStart, ConversationID: "c1"},
			nil,
		},
		{
			"content event",
			`{"type":"content","text":"Hel"}`,
			StreamEvent{Type: EventContent, Text: "Hel"},
			nil,
		},
		{
			"end event",
			`{"type":"end"}`,
			StreamEvent{Type: EventEnd},
			nil,
		},
		{
			"error event",
			`{"type":"error","text":"overloaded"}`,
			StreamEvent{Type: EventError, Text: "overloaded"},
			nil,
		},
		{
			"unknown type",
			`{"type":"ping"}`,
			StreamEvent{},
			ErrUnknownEventType,
		},
		{
			"missing type",
			`{"text":"orphan"}`,
			StreamEvent{},
			ErrUnknownEventType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseStreamEvent([]byte(tc.input))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStreamEvent() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseStreamEvent_MalformedJSON(t *testing.T) {
	if _, err := ParseStreamEvent([]byte("{not json")); err == nil {
		t.Error("malformed JSON should fail")
	}
}

// =============================================================================
// TIME RANGE TESTS
// =============================================================================

func TestTimeRange(t *testing.T) {
	if !Range7d.Valid() || !Range30d.Valid() || !Range90d.Valid() {
		t.Error("canonical ranges must be valid")
	}
	if TimeRange("1y").Valid() {
		t.Error("1y is not a valid range")
	}
	if Range7d.Next() != Range30d || Range30d.Next() != Range90d {
		t.Error("Next() should cycle 7d -> 30d -> 90d")
	}
	if Range90d.Next() != Range7d {
		t.Errorf("Range90d.Next() = %v, want wrap to 7d", Range90d.Next())
	}
}

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tc := range tests {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCurrencyAndPercent(t *testing.T) {
	if got := FormatCurrency(45231.89); got != "$45,231" {
		t.Errorf("FormatCurrency = %q, want $45,231", got)
	}
	if got := FormatPercent(12.5); got != "12.5%" {
		t.Errorf("FormatPercent = %q, want 12.5%%", got)
	}
}
