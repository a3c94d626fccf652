// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// RELIABILITY: Atomic write with fsync prevents data loss on crash
//
// AtomicWriteFile writes data to path atomically:
// 1. Write to a temporary file in the same directory
// 2. fsync the data to disk
// 3. Close and chmod the temp file
// 4. Rename the temp file over the target path
//
// The rename is atomic on the same filesystem, so on crash either the old
// file or the complete new file exists, never a partial write. The session
// and config stores rely on this when persisting credentials.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	return atomicWrite(path, data, perm, 0755)
}

// AtomicWriteFilePrivate is AtomicWriteFile with a 0700 parent directory,
// used for files under ~/.pulse that hold credentials.
func AtomicWriteFilePrivate(path string, data []byte, perm os.FileMode) error {
	return atomicWrite(path, data, perm, 0700)
}

func atomicWrite(path string, data []byte, perm, dirPerm os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Temp file must live in the same directory for the rename to be atomic.
	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	// RELIABILITY: Sync to disk before rename so the data is durable.
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync data to disk: %w", err)
	}

	// Close before rename - required on some systems (Windows).
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
