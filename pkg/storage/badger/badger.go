package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/phoenix4012/souchier/pkg/storage"
)

// keyPrefix namespaces snapshot keys so the database can hold other data later.
var keyPrefix = []byte("snap:")

// ErrKeyCollision is returned by Save when two snapshot names hash to the same key.
var ErrKeyCollision = errors.New("snapshot key collision")

// Storage implements storage.Storage using BadgerDB
type Storage struct {
	db *badger.DB
}

// Config holds BadgerDB configuration
type Config struct {
	// Path to store database files
	Path string

	// InMemory mode (for testing)
	InMemory bool

	// MaxMemoryMB limits BadgerDB memory usage in MB (0 = small defaults)
	MaxMemoryMB int64
}

// New creates a BadgerDB storage backend
func New(cfg Config) (*Storage, error) {
	opts := badger.DefaultOptions(cfg.Path)

	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	// Snapshots are a few KB; keep the footprint tiny.
	memTableSize := int64(8 << 20)
	if cfg.MaxMemoryMB > 0 {
		memTableSize = cfg.MaxMemoryMB * 1024 * 1024 / 3
	}

	opts = opts.
		WithCompression(options.Snappy).
		WithNumVersionsToKeep(1).
		WithMemTableSize(memTableSize).
		WithNumMemtables(2).
		WithBlockCacheSize(memTableSize / 2).
		WithIndexCacheSize(memTableSize / 4).
		WithMaxLevels(4).
		WithNumCompactors(2).
		WithValueLogFileSize(16 << 20).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Storage{db: db}, nil
}

// Save stores a snapshot under its name
func (s *Storage) Save(ctx context.Context, snap storage.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.db.Update(func(txn *badger.Txn) error {
			key := makeKey(snap.Name)
			owner, found, err := storedName(txn, key)
			if err != nil {
				return err
			}
			if found && owner != snap.Name {
				return fmt.Errorf("%w: %q shares a key with %q", ErrKeyCollision, snap.Name, owner)
			}
			return txn.Set(key, value)
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to write snapshot %q: %w", snap.Name, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("save operation cancelled: %w", ctx.Err())
	}
}

// Load returns the named snapshot or storage.ErrNotFound
func (s *Storage) Load(ctx context.Context, name string) (*storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type loadResult struct {
		snap *storage.Snapshot
		err  error
	}
	done := make(chan loadResult, 1)

	go func() {
		var res loadResult
		res.err = s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(makeKey(name))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				snap, err := decodeSnapshot(val)
				if err != nil {
					return err
				}
				// Hash collision: the key belongs to another name.
				if snap.Name != name {
					return storage.ErrNotFound
				}
				res.snap = snap
				return nil
			})
		})
		done <- res
	}()

	select {
	case res := <-done:
		return res.snap, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("load operation cancelled: %w", ctx.Err())
	}
}

// List returns snapshot metadata sorted by name
func (s *Storage) List(ctx context.Context) ([]storage.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var infos []storage.Info
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				snap, err := decodeSnapshot(val)
				if err != nil {
					return err
				}
				infos = append(infos, snap.Info())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes the named snapshot
func (s *Storage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := makeKey(name)
		owner, found, err := storedName(txn, key)
		if err != nil || !found || owner != name {
			return err
		}
		return txn.Delete(key)
	})
}

// Close shuts down BadgerDB cleanly
func (s *Storage) Close() error {
	return s.db.Close()
}

// RunGC runs BadgerDB's value log garbage collection.
// Returns badger.ErrNoRewrite when nothing was reclaimed.
func (s *Storage) RunGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// makeKey creates a fixed-size key: prefix + xxhash(name)
func makeKey(name string) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], xxhash.Sum64String(name))
	return key
}

// storedName returns the snapshot name held under key, if any.
func storedName(txn *badger.Txn, key []byte) (string, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var name string
	err = item.Value(func(val []byte) error {
		snap, err := decodeSnapshot(val)
		if err != nil {
			return err
		}
		name = snap.Name
		return nil
	})
	return name, err == nil, err
}

// decodeSnapshot deserializes bytes to a snapshot
func decodeSnapshot(data []byte) (*storage.Snapshot, error) {
	var snap storage.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
