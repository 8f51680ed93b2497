package reconcile

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/storage"
)

// DefaultDebounce is how long a path must be quiet before it is refreshed.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the relative path of each note refreshed by
// the watcher.
type ChangeFunc func(path string)

// Watch refreshes notes whose body files change under notes/ until ctx is
// cancelled. Bursts of events on one path (editors often write, rename and
// chmod in quick succession) are coalesced by debounce.
func Watch(ctx context.Context, core *service.Core, debounce time.Duration, logger *slog.Logger, cb ChangeFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	notesDir, err := core.Files().Abs(storage.NotesDir)
	if err != nil {
		return err
	}
	if err := addDirsRecursive(w, notesDir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", notesDir))

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("watcher: stopped")
			return nil

		case <-timer.C:
			for rel := range pending {
				refresh(ctx, core, rel, logger, cb)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if isDir(ev.Name) {
					if err := addDirsRecursive(w, ev.Name); err != nil {
						logger.Warn("watcher: add new dir failed", slog.String("path", ev.Name), slog.String("error", err.Error()))
					}
					continue
				}
			}
			if !isNoteFile(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			rel, err := core.Files().Rel(ev.Name)
			if err != nil {
				continue
			}
			pending[rel] = struct{}{}
			timer.Reset(debounce)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// refresh applies one settled path. A body that no longer exists is
// reported and left alone: the row stays and reads as empty content.
func refresh(ctx context.Context, core *service.Core, rel string, logger *slog.Logger, cb ChangeFunc) {
	exists, err := core.Files().Exists(rel)
	if err != nil {
		logger.Warn("watcher: stat failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if !exists {
		logger.Warn("watcher: note body removed", slog.String("path", rel))
		return
	}
	changed, err := core.Notes.Refresh(ctx, rel)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		logger.Debug("watcher: untracked file", slog.String("path", rel))
	case err != nil:
		logger.Warn("watcher: refresh failed", slog.String("path", rel), slog.String("error", err.Error()))
	case changed:
		logger.Debug("watcher: refreshed", slog.String("path", rel))
		if cb != nil {
			cb(rel)
		}
	}
}

func isNoteFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".md") && !strings.HasPrefix(base, ".")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
