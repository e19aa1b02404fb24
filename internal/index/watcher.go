package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/adfbridge/internal/checksum"
	"github.com/starford/adfbridge/internal/storage"
)

// Watcher event kinds.
const (
	EventConverted = "converted"
	EventDeleted   = "deleted"
)

const (
	// settleDelay coalesces the burst of writes editors emit per save.
	settleDelay    = 75 * time.Millisecond
	reconcileDelay = 200 * time.Millisecond
)

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind string, path string)

type watcher struct {
	db     *DB
	store  storage.Provider
	logger *slog.Logger
	notify EventCallback
	fsw    *fsnotify.Watcher

	// pending holds source paths written since the last flush.
	pending    map[string]struct{}
	flushTimer *time.Timer
	reconTimer *time.Timer
	flushC     <-chan time.Time
	reconcileC <-chan time.Time
}

// Watch reconverts source documents as the workspace changes until ctx is
// cancelled. cb, if non-nil, is called after each index change.
//
// Writes are converted once they settle and only when the content checksum
// differs from the index, so files the document service already converted
// are not reported twice. New directories are watched as they appear.
// Renames and new directories trigger a debounced reconcile pass.
func Watch(ctx context.Context, db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	w := &watcher{
		db:      db,
		store:   store,
		logger:  logger,
		notify:  cb,
		fsw:     fsw,
		pending: make(map[string]struct{}),
	}
	if cb == nil {
		w.notify = func(string, string) {}
	}
	if err := w.addTree(store.Root()); err != nil {
		return err
	}
	defer w.stopTimers()

	logger.Info("watcher: started", slog.String("root", store.Root()))
	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case <-w.flushC:
			w.flush()

		case <-w.reconcileC:
			w.reconcileC = nil
			if _, err := reconcile(w.db, w.store, w.logger, w.notify); err != nil {
				logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", err.Error()))
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("watcher: add new dir failed",
					slog.String("path", ev.Name),
					slog.String("error", err.Error()))
			}
			// Files may land in the directory before it is watched.
			w.scheduleReconcile()
			return
		}
	}

	rel, err := filepath.Rel(w.store.Root(), ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if !storage.IsSource(rel) {
		return
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.pending[rel] = struct{}{}
		w.scheduleFlush()

	case ev.Op&fsnotify.Remove != 0:
		delete(w.pending, rel)
		w.remove(rel)

	case ev.Op&fsnotify.Rename != 0:
		// Rename fires on the old path only; the new name may arrive as a
		// Create or not at all if it left the workspace.
		delete(w.pending, rel)
		w.remove(rel)
		w.scheduleReconcile()
	}
}

// flush converts every pending path whose content changed.
func (w *watcher) flush() {
	w.flushC = nil
	for rel := range w.pending {
		delete(w.pending, rel)

		data, err := w.store.Read(rel)
		if err != nil {
			w.logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}
		if cs, _ := w.db.GetChecksum(rel); cs == checksum.Sum(data) {
			continue
		}
		if err := convertFile(w.db, rel, data); err != nil {
			w.logger.Warn("watcher: convert failed", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}
		w.logger.Debug("watcher: converted", slog.String("path", rel))
		w.notify(EventConverted, rel)
	}
}

func (w *watcher) remove(rel string) {
	if cs, _ := w.db.GetChecksum(rel); cs == "" {
		return
	}
	if err := w.db.DeleteDocument(rel); err != nil {
		w.logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	w.notify(EventDeleted, rel)
}

func (w *watcher) scheduleFlush() {
	w.flushTimer = resetTimer(w.flushTimer, settleDelay)
	w.flushC = w.flushTimer.C
}

func (w *watcher) scheduleReconcile() {
	w.reconTimer = resetTimer(w.reconTimer, reconcileDelay)
	w.reconcileC = w.reconTimer.C
}

func (w *watcher) stopTimers() {
	for _, t := range []*time.Timer{w.flushTimer, w.reconTimer} {
		if t != nil {
			t.Stop()
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) *time.Timer {
	if t == nil {
		return time.NewTimer(d)
	}
	t.Reset(d)
	return t
}

// addTree watches dir and every visible directory below it.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return w.fsw.Add(path)
	})
}
