package importer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event kinds passed to an EventCallback.
const (
	EventImported = "imported"
	EventUpdated  = "updated"
	EventDeleted  = "deleted"
)

// DefaultDebounce is the delay before a prune pass after removals.
const DefaultDebounce = 200 * time.Millisecond

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind, documentID string)

// Watch starts an fsnotify watcher on the source root and processes file
// change events until ctx is cancelled. Created or written files are
// re-imported with force; removed or renamed files are dropped from the
// index, followed by a debounced prune pass. cb (if non-nil) is called
// after each index change.
//
// New directories created at runtime are added to the watch list and the
// files already in them are imported.
func (im *Importer) Watch(ctx context.Context, debounce time.Duration, cb EventCallback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root := im.store.Root()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	im.logger.Info("watcher: started", slog.String("root", root))

	// pruneTimer debounces the prune pass after removals.
	var pruneTimer *time.Timer
	var pruneCh <-chan time.Time

	schedulePrune := func() {
		if pruneTimer == nil {
			pruneTimer = time.NewTimer(debounce)
			pruneCh = pruneTimer.C
		} else {
			pruneTimer.Reset(debounce)
		}
	}

	emit := func(kind, id string) {
		if cb != nil {
			cb(kind, id)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if pruneTimer != nil {
				pruneTimer.Stop()
			}
			im.logger.Info("watcher: stopped")
			return nil

		case <-pruneCh:
			ids, err := im.Prune(ctx)
			if err != nil {
				im.logger.Warn("watcher: prune failed", slog.String("error", err.Error()))
			}
			for _, id := range ids {
				emit(EventDeleted, id)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
					if strings.HasPrefix(info.Name(), ".") {
						continue
					}
					if addErr := addDirsRecursive(w, abs); addErr != nil {
						im.logger.Warn("watcher: add new dir failed",
							slog.String("path", abs),
							slog.String("error", addErr.Error()))
					} else {
						im.logger.Debug("watcher: watching new dir", slog.String("path", abs))
					}
					im.importDir(abs, emit)
					continue
				}
			}

			rel, relErr := im.store.Rel(abs)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify reports a rename on the old path only; the new
				// path arrives as a separate Create.
				ids, delErr := im.index.DeleteByFilePath(abs)
				if delErr != nil {
					im.logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				}
				for _, id := range ids {
					im.logger.Debug("watcher: deleted", slog.String("path", rel), slog.String("document_id", id))
					emit(EventDeleted, id)
				}
				schedulePrune()

			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if !im.store.Match(rel) {
					continue
				}
				im.reimport(rel, emit)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			im.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (im *Importer) reimport(rel string, emit func(kind, id string)) {
	d := im.ImportFile(rel, true)
	switch d.Status {
	case StatusImported:
		emit(EventImported, d.DocumentID)
	case StatusUpdated:
		emit(EventUpdated, d.DocumentID)
	case StatusError:
		im.logger.Warn("watcher: import failed", slog.String("path", rel), slog.String("error", d.Reason))
	}
}

// importDir imports the selected files found in a newly created directory.
func (im *Importer) importDir(dir string, emit func(kind, id string)) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := im.store.Rel(p)
		if relErr != nil || !im.store.Match(rel) {
			return nil
		}
		im.reimport(rel, emit)
		return nil
	})
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
