package watch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

// watchAndRebuild watches opts.compilations and opts.index (if set) and
// calls rebuild, debounced, whenever either is written. Grounded on the
// teacher's fsnotify-based debounce loop (cmd/watch/watcher.go), stripped of
// directory-tree watching, skipped-dir handling, and git-state polling: this
// tool only ever needs to watch the handful of named config files.
func watchAndRebuild(ctx context.Context, opts *watchOptions, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(opts.compilations); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.compilations, err)
	}
	if opts.index != "" {
		if err := watcher.Add(opts.index); err != nil {
			return fmt.Errorf("failed to watch %s: %w", opts.index, err)
		}
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, rebuild)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}
