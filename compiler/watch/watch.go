// Package watch re-runs a callback whenever a file changes.
//
// The directory holding the file is watched rather than the file itself,
// since editors commonly save by writing a new file and renaming it over
// the old one. Bursts of events are coalesced and runs never overlap.
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

// DefaultDebounce is the quiet period awaited after the last event.
const DefaultDebounce = 200 * time.Millisecond

// Func is called once on start and after every change.
type Func func(ctx context.Context) error

// Watcher watches one file.
type Watcher struct {
	path     string
	fn       Func
	debounce time.Duration
	log      *slog.Logger
	// runs, when set, receives the result of every run.
	runs chan<- error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period awaited before a run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithNotify sends the result of every run on ch. Sends block, so the
// receiver must keep up.
func WithNotify(ch chan<- error) Option {
	return func(w *Watcher) { w.runs = ch }
}

// New returns a Watcher calling fn for the file at path.
func New(path string, fn Func, opts ...Option) (*Watcher, error) {
	if fn == nil {
		return nil, errors.New("watch: nil func")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{path: abs, fn: fn, debounce: DefaultDebounce, log: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run calls fn once, then again after each change of the file, until ctx
// is done. Errors returned by fn are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(w.path), err)
	}
	w.log.InfoContext(ctx, "watching", "path", w.path)
	w.run(ctx)

	// fire is nil while no run is pending.
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.DebugContext(ctx, "file event", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WarnContext(ctx, "watch error", "error", err)
		case <-fire:
			fire = nil
			w.run(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) run(ctx context.Context) {
	start := time.Now()
	err := w.fn(ctx)
	if err != nil {
		w.log.ErrorContext(ctx, "run failed", "path", w.path, "error", err)
	} else {
		w.log.InfoContext(ctx, "run finished", "path", w.path, "took", time.Since(start))
	}
	if w.runs != nil {
		select {
		case w.runs <- err:
		case <-ctx.Done():
		}
	}
}
