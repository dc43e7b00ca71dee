// Package watch reruns an action when any of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Run waits for a burst of events to settle.
const DefaultDebounce = 300 * time.Millisecond

// Run watches the parent directories of files and calls fn once per
// debounced burst of write, create or rename events on those files. Errors
// from fn and from the watcher go to onErr and do not stop the loop. Run
// returns when ctx is cancelled.
func Run(ctx context.Context, files []string, debounce time.Duration, fn func() error, onErr func(error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onErr == nil {
		onErr = func(error) {}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onErr(err)
		case <-fire:
			fire = nil
			if err := fn(); err != nil {
				onErr(err)
			}
		}
	}
}
