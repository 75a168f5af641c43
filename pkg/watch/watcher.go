// Package watch reports the content of a graph description file every time
// it changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups the burst of events an editor save produces
const DefaultDebounce = 100 * time.Millisecond

// Watcher follows a single file. The parent directory is watched so that
// editors that save by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *zap.Logger
	fw       *fsnotify.Watcher
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger used for watcher errors
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New starts watching path
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.fw = fw
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run calls onChange with the current file content, then again after every
// debounced change, until ctx is done. Unreadable states (for example the
// moment between an editor's delete and create) are logged and skipped.
func (w *Watcher) Run(ctx context.Context, onChange func(content string)) error {
	defer w.fw.Close()

	w.emit(onChange)

	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.isRelevant(event) {
				continue
			}
			pending = true
			debounce.Reset(w.debounce)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-debounce.C:
			if pending {
				pending = false
				w.emit(onChange)
			}
		}
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) emit(onChange func(string)) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn("failed to read watched file", zap.String("path", w.path), zap.Error(err))
		return
	}
	onChange(string(data))
}
