// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// watchDebounce coalesces the write bursts editors produce on save.
const watchDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// fresh Config to the registered callback. Parse or validation failures
// keep the previous config; the running client never sees a broken one.
type Watcher struct {
	path     string
	onChange func(*Config)
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	lastHit time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher over the given config path.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		onChange: onChange,
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching. The parent directory is watched rather than the
// file itself because atomic saves replace the inode.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.debounced() {
				continue
			}
			cfg, err := LoadFrom(w.path)
			if err != nil {
				continue
			}
			w.onChange(cfg)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) debounced() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if now.Sub(w.lastHit) < watchDebounce {
		return false
	}
	w.lastHit = now
	return true
}
