// Package watcher reacts to out-of-band changes to the entry index file.
// The index is authoritative over the generated pages, so an external edit
// (manual fix, restore from backup) should trigger a navigation rebuild
// without waiting for the next admin mutation.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on dir and calls onChange after the
// named file is created, written, or replaced. Bursts of events are
// debounced. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, dir, file string, logger *slog.Logger, onChange func()) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("watcher: init failed", slog.String("error", err.Error()))
		return
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		logger.Warn("watcher: add dir failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}

	logger.Info("watcher: started", slog.String("dir", dir), slog.String("file", file))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return

		case <-fire:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != file {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
