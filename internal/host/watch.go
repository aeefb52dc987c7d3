package host

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mj1618/focusnav/internal/model"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 50 * time.Millisecond

// Watcher reloads a layout file into a Tree whenever it changes on disk.
type Watcher struct {
	path     string
	tree     *Tree
	logger   *slog.Logger
	debounce time.Duration
	reloaded func(model.LayoutDiff)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OnReload registers a callback run after each successful reload.
func OnReload(fn func(model.LayoutDiff)) WatcherOption {
	return func(w *Watcher) { w.reloaded = fn }
}

// NewWatcher returns a watcher for the layout file at path.
func NewWatcher(path string, tree *Tree, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		tree:     tree,
		logger:   slog.New(slog.DiscardHandler),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Reload reads the file and pushes it into the tree.
func (w *Watcher) Reload() error {
	layout, err := model.LoadLayout(w.path)
	if err != nil {
		return err
	}
	prev := model.FlattenElements(w.tree.Source().Elements)
	m := w.tree.Update(layout)
	w.logger.Debug("layout reloaded", "path", w.path,
		"added", len(m.Added), "removed", len(m.Removed), "moved", len(m.Moved))
	if w.reloaded != nil {
		w.reloaded(model.DiffLayouts(prev, model.FlattenElements(layout.Elements)))
	}
	return nil
}

// Run watches the file's directory until ctx is done. The directory is
// watched rather than the file because editors often replace files by
// rename. Reload failures are logged and the previous layout is kept.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	target := filepath.Clean(w.path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.Reload(); err != nil {
				w.logger.Warn("layout reload failed", "path", w.path, "error", err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		}
	}
}
