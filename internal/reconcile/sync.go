// Package reconcile keeps note rows in step with bodies edited outside the
// application: word counts and the full-text index follow the file on disk.
package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/storage"
)

// Report summarizes one Sync pass.
type Report struct {
	Scanned   int // .md files found under notes/
	Refreshed int // notes whose row or index changed
	Untracked int // files with no note row
	Missing   int // note rows whose body file is gone
}

// Sync walks notes/ and refreshes every tracked note from its file. Files
// without a row are reported, not imported. Per-file failures are logged
// and skipped; only listing failures abort the pass.
func Sync(ctx context.Context, core *service.Core, logger *slog.Logger) (Report, error) {
	var rep Report

	metas, err := core.Files().List(storage.NotesDir, ".md")
	if err != nil {
		return rep, err
	}
	onDisk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Scanned++
		onDisk[m.Path] = struct{}{}

		changed, err := core.Notes.Refresh(ctx, m.Path)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			rep.Untracked++
			logger.Debug("sync: untracked file", slog.String("path", m.Path))
		case err != nil:
			logger.Warn("sync: refresh failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		case changed:
			rep.Refreshed++
			logger.Debug("sync: refreshed", slog.String("path", m.Path))
		}
	}

	notes, err := core.Notes.List(ctx, true)
	if err != nil {
		return rep, err
	}
	for _, n := range notes {
		if _, ok := onDisk[n.ContentPath]; ok {
			continue
		}
		rep.Missing++
		logger.Warn("sync: note body missing", slog.String("id", n.ID), slog.String("path", n.ContentPath))
	}

	logger.Info("sync: done",
		slog.Int("scanned", rep.Scanned),
		slog.Int("refreshed", rep.Refreshed),
		slog.Int("untracked", rep.Untracked),
		slog.Int("missing", rep.Missing))
	return rep, nil
}
