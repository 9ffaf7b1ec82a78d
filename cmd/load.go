package cmd

import (
	"context"
	"fmt"

	"github.com/dhcgn/fbmessage-stats/archive"
	"github.com/dhcgn/fbmessage-stats/config"
	"github.com/dhcgn/fbmessage-stats/filter"
	"github.com/dhcgn/fbmessage-stats/progress"
	"github.com/dhcgn/fbmessage-stats/snapshot"
)

// loadStore builds the conversation model from the configured source. The
// returned summary is only populated when the archive itself was parsed.
func loadStore(ctx context.Context) (*archive.Store, archive.Summary, error) {
	if err := cfg.RequireSource(); err != nil {
		return nil, archive.Summary{}, err
	}

	switch cfg.Source() {
	case config.SourceSnapshotFile:
		store, info, err := snapshot.ReadFile(cfg.SnapshotFile)
		if err != nil {
			return nil, archive.Summary{}, fmt.Errorf("load snapshot file: %w", err)
		}
		logger.Info("snapshot loaded", "file", cfg.SnapshotFile, "source", info.Source, "threads", info.Threads, "created", info.CreatedAt)
		return store, archive.Summary{}, nil

	case config.SourceSnapshotDB:
		db, err := snapshot.Open(ctx, cfg.SnapshotDB)
		if err != nil {
			return nil, archive.Summary{}, err
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return nil, archive.Summary{}, err
		}

		id := cfg.SnapshotID
		if id == "" {
			latest, err := db.Latest(ctx)
			if err != nil {
				return nil, archive.Summary{}, err
			}
			id = latest.ID
		}
		store, info, err := db.Load(ctx, id)
		if err != nil {
			return nil, archive.Summary{}, err
		}
		logger.Info("snapshot loaded", "db", cfg.SnapshotDB, "id", info.ID, "source", info.Source, "threads", info.Threads)
		return store, archive.Summary{}, nil
	}

	collector := archive.NewCollector()
	bar := progress.New(cfg.LogLevel)
	store, err := archive.Open(cfg.ArchivePath, archive.Options{
		Strict:   cfg.Strict,
		Logger:   logger,
		Observer: archive.Observers(collector.Observe, bar.Update),
	})
	bar.Stop()
	if err != nil {
		return nil, archive.Summary{}, err
	}

	summary := collector.Snapshot()
	logger.Info("build summary", summary.LogAttrs()...)
	return store, summary, nil
}

// applyFilter narrows store to the messages accepted by the filter flags.
func applyFilter(store *archive.Store, opts filter.Options) (*archive.Store, *filter.Filter, error) {
	f, err := filter.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("create filter: %w", err)
	}
	if !f.Active() {
		return store, f, nil
	}
	return store.Filter(f.AllowsMessage), f, nil
}
