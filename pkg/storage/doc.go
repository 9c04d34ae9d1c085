/*
Package storage keeps named catalog snapshots.

A snapshot is a frozen copy of a catalog together with where it came from
and when it was taken. The import command writes one; the store:<name>
source reads it back, so a registry can be served without reaching the
original file or database.

# Backends

All backends implement the Storage interface:
  - memory: map-backed, for tests
  - badger: BadgerDB on disk, the backend the server opens under its data dir

The badger backend keys snapshots by a hash of their name. Load and Delete
check the stored name, and Save refuses to overwrite a different snapshot
that happens to share the key.

# Usage Example

	store, err := badger.New(badger.Config{Path: "./data/snapshots"})
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	err = store.Save(ctx, storage.Snapshot{
	    Name:    "2026-03",
	    Source:  "file:souchier.csv",
	    SavedAt: time.Now(),
	    Records: cat,
	})

	snap, err := store.Load(ctx, "2026-03")
	if errors.Is(err, storage.ErrNotFound) {
	    // no snapshot with that name
	}

List returns snapshot metadata without the records, sorted by name.
*/
package storage
