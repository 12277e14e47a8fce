package core

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// WatchLogs watches dir for log writes and publishes one change event per throttle window.
// The first change opens the window and every change inside it joins the same event.
// It blocks until ctx is done.
func WatchLogs(ctx context.Context, dir string, throttle time.Duration, notifier contract.Notifier) error {
	if throttle <= 0 {
		throttle = contract.DefaultThrottle
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create log watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isLogChange(event) {
				continue
			}
			pending[filepath.Base(event.Name)] = struct{}{}
			if fire == nil {
				timer = time.NewTimer(throttle)
				fire = timer.C
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			contract.LogWarn("Log watcher error", err)

		case <-fire:
			fire = nil
			notifier.Publish(newChangeEvent(pending, time.Now()))
			pending = make(map[string]struct{})
		}
	}
}

// isLogChange reports whether event writes or creates a log file.
func isLogChange(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != contract.LogExtension {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// newChangeEvent builds an event listing the changed files by name.
func newChangeEvent(files map[string]struct{}, now time.Time) schema.ChangeEvent {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)
	return schema.ChangeEvent{
		ID:        uuid.NewString(),
		Timestamp: now,
		Files:     names,
	}
}
