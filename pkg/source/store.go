package source

import (
	"context"

	"github.com/phoenix4012/souchier/pkg/catalog"
	"github.com/phoenix4012/souchier/pkg/storage"
)

// StoreSource reads a named snapshot from the snapshot store.
type StoreSource struct {
	Store    storage.Storage
	Snapshot string
}

// Name returns "store:<snapshot>"
func (s *StoreSource) Name() string { return "store:" + s.Snapshot }

// Load returns the snapshot records
func (s *StoreSource) Load(ctx context.Context) (catalog.Catalog, error) {
	snap, err := s.Store.Load(ctx, s.Snapshot)
	if err != nil {
		return nil, err
	}
	if snap.Records == nil {
		return catalog.Catalog{}, nil
	}
	return snap.Records, nil
}
