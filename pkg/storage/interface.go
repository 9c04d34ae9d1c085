package storage

import (
	"context"
	"errors"
	"time"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// ErrNotFound is returned when no snapshot has the requested name.
var ErrNotFound = errors.New("snapshot not found")

// Storage keeps named catalog snapshots.
// Implementations: memory (testing), badger (on disk)
type Storage interface {
	// Save stores a snapshot, replacing any snapshot with the same name
	Save(ctx context.Context, snap Snapshot) error

	// Load returns the snapshot with the given name or ErrNotFound
	Load(ctx context.Context, name string) (*Snapshot, error)

	// List returns snapshot metadata sorted by name
	List(ctx context.Context) ([]Info, error)

	// Delete removes a snapshot; deleting a missing name is not an error
	Delete(ctx context.Context, name string) error

	// Close cleanly shuts down the storage
	Close() error
}

// Snapshot is a catalog frozen under a name.
type Snapshot struct {
	Name    string          `json:"name"`
	Source  string          `json:"source"`
	SavedAt time.Time       `json:"saved_at"`
	Records catalog.Catalog `json:"records"`
}

// Info describes a stored snapshot without its records.
type Info struct {
	Name    string    `json:"name"`
	Source  string    `json:"source"`
	SavedAt time.Time `json:"saved_at"`
	Records int       `json:"records"`
}

// Info returns the snapshot metadata.
func (s Snapshot) Info() Info {
	return Info{Name: s.Name, Source: s.Source, SavedAt: s.SavedAt, Records: len(s.Records)}
}
