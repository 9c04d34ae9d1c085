package server

import (
	"context"
	"errors"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/storage"
	"github.com/phoenix4012/souchier/pkg/storage/badger"
)

// GCInterval is how often the snapshot store value log is collected.
const GCInterval = 10 * time.Minute

// RunBadgerGC runs BadgerDB garbage collection periodically until ctx ends.
// Stores that are not BadgerDB are skipped.
func RunBadgerGC(ctx context.Context, store storage.Storage, logger *zap.Logger) {
	badgerStore, ok := store.(*badger.Storage)
	if !ok {
		logger.Debug("Storage is not BadgerDB, skipping GC")
		return
	}

	ticker := time.NewTicker(GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			// One pass per tick; a rewrite-free pass is normal for a small store.
			err := badgerStore.RunGC(0.5)
			switch {
			case err == nil:
				logger.Info("Snapshot store GC reclaimed space", zap.Duration("took", time.Since(start)))
			case errors.Is(err, badgerdb.ErrNoRewrite):
				logger.Debug("Snapshot store GC found nothing to rewrite")
			default:
				logger.Warn("Snapshot store GC failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
