package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/htmlgen/internal/logfields"
)

// DefaultDebounce is the quiet period after the last file event before a run.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Paths are watched recursively; plain files are watched directly.
	Paths    []string
	Debounce time.Duration
	// Every adds a periodic run when positive.
	Every time.Duration
}

// Watcher reruns a task on changes.
type Watcher struct {
	opts Options
}

// New creates a Watcher.
func New(opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{opts: opts}
}

// Run calls fn once, then again after every debounced change and every
// periodic tick, until ctx is done. Errors from fn are logged and do not stop
// watching.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, p := range w.opts.Paths {
		if err := addPath(fsw, p); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := newQueue()
	debounce := newDebouncer(w.opts.Debounce, q.trigger)
	defer debounce.stop()

	if w.opts.Every > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.Every(w.opts.Every, q.trigger); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.work(ctx, func() {
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("Run failed; waiting for changes", logfields.Error(err))
			}
		})
	}()
	q.trigger()

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				cancel()
				<-done
				return nil
			}
			handleEvent(fsw, ev, debounce.call)
		case err, ok := <-fsw.Errors:
			if !ok {
				cancel()
				<-done
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fsw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
	trigger()
}

func addPath(fsw *fsnotify.Watcher, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if !fi.IsDir() {
		return fsw.Add(path)
	}
	return addDirsRecursive(fsw, path)
}

func addDirsRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports whether a file event must not trigger a run.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
