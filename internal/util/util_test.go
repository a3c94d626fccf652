// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly at limit", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero limit", "hello", 0, ""},
		{"tiny limit keeps no ellipsis", "hello", 2, "he"},
		{"multibyte preserved", "héllo wörld", 8, "héllo..."},
		{"cjk preserved", "こんにちは世界", 5, "こん..."},
		{"empty", "", 5, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.input, tc.maxRunes); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.maxRunes, got, tc.want)
			}
		})
	}
}

func TestTruncateRunesNoEllipsis(t *testing.T) {
	if got := TruncateRunesNoEllipsis("hello world", 5); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
	if got := TruncateRunesNoEllipsis("abc", 5); got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}

func TestTruncateWidth_DoubleWidth(t *testing.T) {
	// Each CJK rune is two columns wide.
	if got := StringWidth("日本"); got != 4 {
		t.Errorf("StringWidth = %d, want 4", got)
	}
	got := TruncateWidth("日本語テキスト", 7)
	if StringWidth(got) > 7 {
		t.Errorf("TruncateWidth produced width %d > 7: %q", StringWidth(got), got)
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := AtomicWriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q, want %q", data, "first")
	}

	// Overwrite replaces the whole file.
	if err := AtomicWriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content after overwrite = %q, want %q", data, "second")
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestAtomicWriteFile_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "out.txt")

	if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stat() error = %v", err)
	}
}

func TestAtomicWriteFilePrivate_Permissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets", "session.json")

	if err := AtomicWriteFilePrivate(path, []byte(`{"token":"t"}`), 0600); err != nil {
		t.Fatalf("AtomicWriteFilePrivate() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file perm = %o, want 0600", perm)
	}
	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Stat(dir) error = %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf("dir perm = %o, want 0700", perm)
	}
}
