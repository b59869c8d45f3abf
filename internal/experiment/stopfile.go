package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchStopFile returns a context that is cancelled once path exists. The
// parent directory must exist. The returned stop function releases the
// watcher and must be called.
func WatchStopFile(ctx context.Context, path string, log *slog.Logger) (context.Context, context.CancelFunc, error) {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	if _, err := os.Stat(path); err == nil {
		log.Info("stop file already present", "path", path)
		cancel()
		return ctx, cancel, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		cancel()
		return nil, nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	// The file may have appeared between Stat and Add.
	if _, err := os.Stat(path); err == nil {
		w.Close()
		cancel()
		return ctx, cancel, nil
	}

	target := filepath.Clean(path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) == target && ev.Has(fsnotify.Create) {
					log.Info("stop file detected", "path", path)
					cancel()
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("stop file watcher error", "error", err)
			}
		}
	}()

	return ctx, cancel, nil
}
