// Package watcher reloads content when files under a directory change.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Reloader reloads content and reports how many items it loaded.
type Reloader func() (int, error)

type Watcher struct {
	dir      string
	reload   Reloader
	onReload func(count int)
	log      *zap.Logger

	// Debounce overrides DefaultDebounce when set before Start.
	Debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	// reloading keeps reloads from overlapping.
	reloading sync.Mutex
}

// New creates a watcher for dir. onReload runs after every successful reload.
func New(dir string, reload Reloader, onReload func(count int), log *zap.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		reload:   reload,
		onReload: onReload,
		log:      log.Named("watcher"),
		Debounce: DefaultDebounce,
	}
}

// Start watches dir and its subdirectories until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("init watcher: %w", err)
	}
	if err := w.addTree(fw, w.dir); err != nil {
		fw.Close()
		return err
	}

	go func() {
		defer fw.Close()
		w.log.Info("Watching content", zap.String("dir", w.dir))

		for {
			select {
			case <-ctx.Done():
				w.stopTimer()
				w.log.Info("Stopped watching content")
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) {
					w.watchIfDir(fw, ev.Name)
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					w.log.Debug("Content changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
					w.schedule(ctx)
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.log.Warn("Watch error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

func (w *Watcher) watchIfDir(fw *fsnotify.Watcher, path string) {
	if err := w.addTree(fw, path); err != nil {
		w.log.Debug("Not watching new path", zap.String("path", path), zap.Error(err))
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.run()
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) run() {
	w.reloading.Lock()
	defer w.reloading.Unlock()

	count, err := w.reload()
	if err != nil {
		w.log.Error("Reload failed", zap.Error(err))
		return
	}
	w.log.Info("Content reloaded", zap.Int("count", count))
	if w.onReload != nil {
		w.onReload(count)
	}
}
