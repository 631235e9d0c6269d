package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/deepnoodle-ai/chisel/slogger"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce suppresses repeat reloads within this window.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watch reloads the config file at path whenever it changes and calls
// onChange with each revision that loads and validates. Revisions that
// fail to load or validate are logged and skipped, leaving the previous
// configuration in effect. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger slogger.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Watch the containing directory. Editors often replace the file on
	// save, which silently drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	var lastReload time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// Debounce rapid file changes
			now := time.Now()
			if now.Sub(lastReload) < DefaultWatchDebounce {
				continue
			}
			lastReload = now

			config, err := Load(target)
			if err != nil {
				logger.Warn("config reload failed", "path", path, "error", err)
				continue
			}
			if err := config.Validate(); err != nil {
				logger.Warn("config reload rejected", "path", path, "error", err)
				continue
			}
			logger.Info("config reloaded", "path", path)
			onChange(config)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher error", "error", err)
		}
	}
}
