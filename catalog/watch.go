package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors and atomic
// renames produce for a single logical write.
const DefaultDebounce = 200 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	onErr    func(error)
}

// WithDebounce sets the quiet period after the last event before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithErrorHandler receives reload and watcher errors. Without one they
// are dropped and watching continues.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(c *watchConfig) {
		c.onErr = fn
	}
}

// Watch reloads the catalog file at path whenever it changes and hands
// each decoded snapshot to onChange. The parent directory is watched so
// that replace-by-rename writes are seen. Watch blocks until ctx is done.
//
// onChange is always called from the goroutine running Watch.
func Watch(ctx context.Context, path string, onChange func(Snapshot), opts ...WatchOption) error {
	cfg := watchConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}
	report := func(err error) {
		if cfg.onErr != nil {
			cfg.onErr(err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

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
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(cfg.debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("catalog watcher: %w", err))
		case <-fire:
			fire = nil
			snap, err := LoadFile(abs)
			if err != nil {
				report(err)
				continue
			}
			onChange(snap)
		}
	}
}
