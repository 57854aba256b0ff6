package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xy-planning-network/signpost/logger"
	"github.com/xy-planning-network/signpost/manifest"
	"github.com/xy-planning-network/signpost/page"
)

// A watcher reports changes to a manifest file or the page scripts in a directory,
// once they stop for the debounce duration.
type watcher struct {
	debounce time.Duration
	fsw      *fsnotify.Watcher
	l        logger.Logger
	manifest string
	pagesDir string
}

// newWatcher watches the directory holding src, if src is a file, and pagesDir.
// Directories are watched rather than files so editors replacing a file on save are noticed.
func newWatcher(l logger.Logger, debounce time.Duration, src manifest.Source, pagesDir string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not watch: %w", err)
	}

	w := &watcher{debounce: debounce, fsw: fsw, l: l}
	if fs, ok := src.(*manifest.FileSource); ok {
		w.manifest = filepath.Clean(fs.Path())
		if err := fsw.Add(filepath.Dir(w.manifest)); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("could not watch %s: %w", w.manifest, err)
		}
	}

	if pagesDir != "" {
		w.pagesDir = filepath.Clean(pagesDir)
		if err := fsw.Add(w.pagesDir); err != nil {
			l.Warn(fmt.Sprintf("not watching pages directory: %s", err), nil)
			w.pagesDir = ""
		}
	}

	return w, nil
}

// run calls changed after each settled burst of relevant events until ctx is done.
func (w *watcher) run(ctx context.Context, changed func()) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(ev) {
				continue
			}

			w.l.Debug(fmt.Sprintf("%s %s", ev.Op, ev.Name), nil)
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.l.Error(fmt.Sprintf("watch error: %s", err), &logger.LogContext{Error: err})

		case <-timer.C:
			changed()
		}
	}
}

// relevant reports whether ev touches the manifest or a page script.
// Chmod alone is ignored.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Clean(ev.Name)
	if w.manifest != "" && name == w.manifest {
		return true
	}

	return w.pagesDir != "" &&
		filepath.Dir(name) == w.pagesDir &&
		strings.HasSuffix(name, page.ScriptExt)
}
