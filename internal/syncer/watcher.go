package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

const (
	// watcherDebounceInterval is how often pending changes are checked.
	watcherDebounceInterval = 250 * time.Millisecond

	// DefaultWatchDebounce is how long the tree must be still before a
	// re-run starts, so an editor saving several files triggers one run.
	DefaultWatchDebounce = 2 * time.Second
)

// Watcher re-runs a sync whenever markdown under the source directory
// changes. One goroutine collects filesystem events, another executes
// runs. Runs never overlap: changes that arrive during a run are batched
// into the next one.
type Watcher struct {
	dir      string
	onChange func(ctx context.Context)
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	interval time.Duration
	quiet    time.Duration
}

// NewWatcher creates a watcher for dir. onChange runs after each batch of
// changes has been quiet for debounce. A non-positive debounce uses
// DefaultWatchDebounce.
func NewWatcher(dir string, debounce time.Duration, onChange func(ctx context.Context), logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &Watcher{
		dir:      dir,
		onChange: onChange,
		logger:   logger.With(slog.String("component", "watcher")),
		interval: min(watcherDebounceInterval, debounce),
		quiet:    debounce,
	}
}

// Watch blocks until the context is cancelled or the event stream fails.
// Directories are watched recursively, including ones created after the
// watch starts.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	w.watcher = watcher
	defer watcher.Close()

	if err := w.addRecursive(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.logger.Info("watching for changes", slog.String("dir", w.dir))

	// Capacity one coalesces triggers raised while a run is in progress.
	trigger := make(chan struct{}, 1)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.collect(gctx, trigger)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-trigger:
				w.logger.Info("changes settled, syncing")
				w.onChange(gctx)
			}
		}
	})

	return g.Wait()
}

// collect debounces filesystem events and raises a trigger once the tree
// has been quiet long enough.
func (w *Watcher) collect(ctx context.Context, trigger chan<- struct{}) error {
	var (
		dirty      bool
		lastChange time.Time
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed unexpectedly")
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			dirty = true
			lastChange = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed unexpectedly")
			}

			w.logger.Warn("watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if !dirty || time.Since(lastChange) < w.quiet {
				continue
			}

			dirty = false

			select {
			case trigger <- struct{}{}:
			default:
			}
		}
	}
}

// relevant reports whether an event can change the synced tree. New
// directories are added to the watch as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if w.shouldIgnore(event.Name) {
		return false
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		// A removed directory can no longer be stat'ed, so every removal
		// counts.
		_ = w.watcher.Remove(event.Name)
		return true
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Lstat(event.Name)
		if err == nil && info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
			_ = w.addRecursive(event.Name)
			return true
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	return isMarkdownPath(event.Name)
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && w.shouldIgnore(path) {
			return filepath.SkipDir
		}

		if d.Type()&os.ModeSymlink != 0 {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

// shouldIgnore matches the entries discovery skips plus editor temp files.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return true
	}

	return base == "node_modules"
}

func isMarkdownPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}
