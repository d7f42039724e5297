// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/univault-io/univault/internal/util"
)

// PathBlob is implemented by blob stores backed by a filesystem path.
type PathBlob interface {
	Path() string
}

// watchDebounce coalesces rapid successive blob writes into one callback.
const watchDebounce = 500 * time.Millisecond

// WatchBlob watches the vault blob for external modification and invokes
// onChange (debounced) until ctx is done. An agent typically reacts by
// relocking its session and prompting for re-unlock, since another process
// has replaced the encrypted state underneath it.
//
// Returns an error if the blob store is not filesystem-backed.
func WatchBlob(ctx context.Context, blob BlobStore, onChange func()) error {
	pb, ok := blob.(PathBlob)
	if !ok {
		return fmt.Errorf("blob store is not filesystem-backed")
	}
	path := pb.Path()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the parent directory: the blob is replaced by rename, and a
	// watch on the file itself would be dropped on the first swap.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch vault directory: %w", err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		var debounce *time.Timer

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, onChange)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				util.Logger.Warn("vault watcher error", "err", err)
			}
		}
	}()

	return nil
}
