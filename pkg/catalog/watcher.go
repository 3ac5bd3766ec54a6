package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithReloadHook is invoked after every successful reload.
func WithReloadHook(fn func(*Catalog)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher keeps a catalog in sync with a YAML file. The parent directory is
// watched so editors that replace files atomically are still observed.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	onReload func(*Catalog)

	current atomic.Pointer[Catalog]
	fsw     *fsnotify.Watcher
}

var _ Source = (*Watcher)(nil)

// NewWatcher loads the file once and prepares the underlying fsnotify
// watcher. Call Run to start observing changes.
func NewWatcher(path string, options ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}

	initial, err := LoadFile(abs)
	if err != nil {
		return nil, err
	}
	w.current.Store(initial)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog: create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("catalog: watch %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	return w, nil
}

// Current returns the last successfully loaded catalog.
func (w *Watcher) Current() *Catalog {
	return w.current.Load()
}

// Run processes file events until ctx is cancelled. The fsnotify watcher is
// closed before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	w.logger.Info("catalog watcher started", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("catalog watcher stopped", zap.String("path", w.path))
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	next, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("catalog reload rejected, keeping previous catalog", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.current.Store(next)
	w.logger.Info("catalog reloaded", zap.String("path", w.path), zap.Int("templates", next.Len()))
	if w.onReload != nil {
		w.onReload(next)
	}
}

// Close releases the fsnotify watcher for callers that never invoke Run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
