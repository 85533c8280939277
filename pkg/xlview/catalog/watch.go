package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before reporting a change.
const DefaultDebounce = 300 * time.Millisecond

// Watch watches folders and calls onChange once a burst of spreadsheet
// creations, removals, renames or writes has been quiet for debounce. Folders
// that cannot be watched are logged and skipped. Watch blocks until ctx is
// cancelled.
func (c *Catalog) Watch(ctx context.Context, folders []string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, folder := range folders {
		if err := watcher.Add(folder); err != nil {
			c.logger.Warn("cannot watch folder", "folder", folder, "error", err)
		}
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			if !c.IsSpreadsheet(filepath.Base(event.Name)) {
				continue
			}
			c.logger.Debug("folder changed", "path", event.Name, "op", event.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			pending = false
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error", "error", err)
		}
	}
}
