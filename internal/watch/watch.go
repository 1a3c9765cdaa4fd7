// Package watch regenerates the documentation stubs when the source tree changes.
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

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// RunFunc performs one regeneration. Errors are logged and the loop continues.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Extension limits file write events to qualifying sources.
	Extension string
	// SkipPrefix marks names that are never watched.
	SkipPrefix string
	// Exclude lists directories whose events are ignored, typically the output directory.
	Exclude []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher runs a RunFunc after quiet periods following source changes.
// Regenerations run on the event loop goroutine and never overlap.
type Watcher struct {
	root    string
	opts    Options
	exclude []string
	run     RunFunc
}

// New creates a watcher over root.
func New(root string, run RunFunc, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	exclude := make([]string, 0, len(opts.Exclude))
	for _, e := range opts.Exclude {
		if !filepath.IsAbs(e) {
			e = filepath.Join(root, e)
		}
		exclude = append(exclude, filepath.Clean(e))
	}
	return &Watcher{root: filepath.Clean(root), opts: opts, exclude: exclude, run: run}
}

// Watch blocks until ctx is canceled or the underlying watcher fails to start.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addDirsRecursive(fw, w.root); err != nil {
		return err
	}

	deb := newDebouncer(w.opts.Debounce)
	defer deb.stop()

	slog.Info("Watching for source changes", logfields.Root(w.root))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, deb.trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-deb.C:
			w.regenerate(ctx)
		}
	}
}

func (w *Watcher) regenerate(ctx context.Context) {
	slog.Info("Change detected; regenerating documentation stubs")
	start := time.Now()
	if err := w.run(ctx); err != nil {
		slog.Warn("Regeneration failed", logfields.Error(err))
		return
	}
	slog.Debug("Regeneration complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.shouldIgnore(ev.Name) {
		return
	}
	isDir := false
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			isDir = true
			_ = w.addDirsRecursive(fw, ev.Name)
		}
	}
	if !isDir && !w.relevant(ev) {
		return
	}
	slog.Debug("Source change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// relevant reports whether a non-directory event can change the output.
// Removes and renames may hit directories that can no longer be stat'ed.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return true
	}
	return strings.HasSuffix(ev.Name, w.opts.Extension)
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnore returns true for paths that must not trigger regeneration.
func (w *Watcher) shouldIgnore(path string) bool {
	clean := filepath.Clean(path)
	for _, ex := range w.exclude {
		if clean == ex || strings.HasPrefix(clean, ex+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(clean)
	if w.opts.SkipPrefix != "" && strings.HasPrefix(base, w.opts.SkipPrefix) {
		return true
	}
	return isEditorOrHidden(base)
}

func isEditorOrHidden(base string) bool {
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
