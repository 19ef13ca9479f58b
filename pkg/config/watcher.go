package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// WatchConfig watches the given files and emits on the returned channel
// after a change settles. Editors that replace files on save show up as
// Create events, so both Write and Create count as changes. The goroutine
// exits when ctx is canceled.
func WatchConfig(ctx context.Context, files ...string) <-chan struct{} {
	ch := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("Config watcher unavailable", "error", err)
		return ch
	}

	for _, f := range files {
		path, err := filepath.Abs(f)
		if err == nil {
			err = watcher.Add(path)
		}
		if err != nil {
			slog.Warn("Cannot watch config file", "file", f, "error", err)
		}
	}

	go func() {
		defer watcher.Close()
		defer close(ch)

		debounce := time.NewTimer(watchDebounce)
		if !debounce.Stop() {
			<-debounce.C
		}
		pending := false

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				slog.Debug("Config file changed", "file", ev.Name)
				if pending {
					if !debounce.Stop() {
						<-debounce.C
					}
				}
				debounce.Reset(watchDebounce)
				pending = true

			case <-debounce.C:
				pending = false
				slog.Info("Configuration change detected")
				select {
				case ch <- struct{}{}:
				default:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Config watcher error", "error", err)
			}
		}
	}()

	return ch
}
