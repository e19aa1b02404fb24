package index

import (
	"log/slog"

	"github.com/starford/adfbridge/internal/storage"
)

// SyncStats summarizes one pass over the workspace.
type SyncStats struct {
	Documents int
	Converted int
	Removed   int
}

// Sync brings the index in line with the workspace: new or changed
// documents are converted and rows whose file is gone are deleted.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) (SyncStats, error) {
	stats, err := reconcile(db, store, logger, nil)
	if err != nil {
		return stats, err
	}
	logger.Info("sync: done",
		slog.Int("documents", stats.Documents),
		slog.Int("converted", stats.Converted),
		slog.Int("removed", stats.Removed))
	return stats, nil
}

// reconcile is the pass shared by Sync and the watcher. notify may be nil.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, notify EventCallback) (SyncStats, error) {
	metas, err := store.List("")
	if err != nil {
		return SyncStats{}, err
	}
	indexed, err := db.AllChecksums()
	if err != nil {
		return SyncStats{}, err
	}

	stats := SyncStats{Documents: len(metas)}
	onDisk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		onDisk[m.Path] = struct{}{}
		if indexed[m.Path] == m.Checksum {
			continue
		}
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := convertFile(db, m.Path, data); err != nil {
			logger.Warn("sync: convert failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		stats.Converted++
		logger.Debug("sync: converted", slog.String("path", m.Path))
		if notify != nil {
			notify(EventConverted, m.Path)
		}
	}

	for p := range indexed {
		if _, ok := onDisk[p]; ok {
			continue
		}
		if err := db.DeleteDocument(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("sync: removed stale", slog.String("path", p))
		if notify != nil {
			notify(EventDeleted, p)
		}
	}
	return stats, nil
}
