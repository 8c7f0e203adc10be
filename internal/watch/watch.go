// Package watch re-runs a callback whenever one of a set of telemetry files
// changes on disk.
//
// Parent directories are watched rather than the files themselves so that
// editors and exporters that replace a file by rename keep triggering
// events. Bursts of events are coalesced by a debounce timer.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 250 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Paths    []string                                      // Files to watch
	Debounce time.Duration                                 // Zero uses DefaultDebounce
	OnChange func(ctx context.Context, path string) error // Called after each settled change
	Logger   *slog.Logger
}

// Watcher watches files and invokes Options.OnChange.
type Watcher struct {
	opts    Options
	tracked map[string]struct{}
	watcher *fsnotify.Watcher
}

// New validates opts and starts watching the files' directories.
func New(opts Options) (*Watcher, error) {
	if len(opts.Paths) == 0 {
		return nil, errors.New("watch: no paths given")
	}
	if opts.OnChange == nil {
		return nil, errors.New("watch: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{opts: opts, tracked: make(map[string]struct{}), watcher: fw}
	dirs := make(map[string]struct{})
	for _, p := range opts.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.tracked[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run blocks until ctx is cancelled or the underlying watcher fails. Errors
// returned by OnChange are logged and do not stop the watch, since a file
// caught mid-write usually parses on the next event.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	var pending string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if !w.relevant(event) {
				continue
			}
			w.opts.Logger.Debug("telemetry file changed", "path", event.Name, "op", event.Op.String())
			pending = event.Name
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			if pending == "" {
				continue
			}
			path := pending
			pending = ""
			if err := w.opts.OnChange(ctx, path); err != nil {
				w.opts.Logger.Warn("refresh failed", "path", path, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether event touches a tracked file with a content change.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if _, ok := w.tracked[abs]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
