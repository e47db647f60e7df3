package resources

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch rebuilds the bundle whenever a source under dir/src changes and
// calls onBuild after each successful rebuild. It blocks until ctx is done.
func Watch(ctx context.Context, dir string, logger *slog.Logger, onBuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	srcDir := filepath.Join(dir, "src")
	if err := watchDirRecursive(watcher, srcDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", srcDir, err)
	}
	logger.Info("watching asset sources", "path", srcDir)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
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
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isSource(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				logger.Debug("asset source changed", "file", filepath.Base(name))
				if err := Rebuild(dir, false); err != nil {
					logger.Error("asset rebuild failed", "error", err)
					return
				}
				onBuild()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func isSource(name string) bool {
	switch filepath.Ext(name) {
	case ".js", ".css":
		return true
	}
	return false
}

func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
