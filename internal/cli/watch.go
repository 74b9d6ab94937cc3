package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchFiles calls fn with the paths written or created since the last call,
// once no further change arrived for the debounce window. It returns when ctx
// is done.
//
// Parent directories are watched rather than the files themselves, so files
// replaced by editors through a rename keep being tracked.
func watchFiles(ctx context.Context, paths []string, debounce time.Duration, log *zap.Logger, fn func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// absolute path -> path as given
	wanted := make(map[string]string, len(paths))
	dirs := make(map[string]struct{})

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}

		wanted[abs] = p
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			p, ok := wanted[abs]
			if !ok {
				continue
			}

			log.Debug("file changed", zap.String("path", p), zap.Stringer("op", event.Op))
			pending[p] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}

			slices.Sort(changed)
			clear(pending)

			fn(changed)
		}
	}
}
