package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/msugsc-shs/research-archive/pkg/log"
)

// WatchDelay is how long Watch waits after a change before calling back, so
// editors finish writing the file.
var WatchDelay = 200 * time.Millisecond

// Watch calls onChange every time the file at path is written or replaced,
// until ctx is cancelled. It returns once the watcher is closed.
func Watch(ctx context.Context, path string, onChange func()) error {
	logger := log.ForService("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close watcher: %v", err)
		}
	}()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	logger.Infof("watching %s for changes", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Debugf("%s changed (%s)", event.Name, event.Op)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(WatchDelay):
			}

			// Atomic saves replace the file, dropping it from the watch list.
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					logger.Warnf("%s was removed, skipping reload", path)
					continue
				}
				if err := watcher.Add(path); err != nil {
					logger.Warnf("failed to re-add %s to watcher: %v", path, err)
				}
			}
			drain(watcher.Events)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorf("watcher error: %v", err)
		}
	}
}

// drain discards events queued while waiting, so one save triggers one
// callback.
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
