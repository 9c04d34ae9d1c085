package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/phoenix4012/souchier/pkg/catalog"
	"github.com/phoenix4012/souchier/pkg/storage"
)

// Storage stores snapshots in memory. Data is lost on restart.
// Useful for testing and development.
type Storage struct {
	snapshots map[string]storage.Snapshot
	mu        sync.RWMutex
}

// New creates an in-memory storage backend
func New() *Storage {
	return &Storage{
		snapshots: make(map[string]storage.Snapshot),
	}
}

// Save stores a copy of the snapshot
func (s *Storage) Save(ctx context.Context, snap storage.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap.Records = append(catalog.Catalog{}, snap.Records...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Name] = snap
	return nil
}

// Load returns a copy of the named snapshot
func (s *Storage) Load(ctx context.Context, name string) (*storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	snap.Records = append(catalog.Catalog{}, snap.Records...)
	return &snap, nil
}

// List returns snapshot metadata sorted by name
func (s *Storage) List(ctx context.Context) ([]storage.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]storage.Info, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		infos = append(infos, snap.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes the named snapshot
func (s *Storage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, name)
	return nil
}

// Close is a no-op for memory storage
func (s *Storage) Close() error {
	return nil
}
