package source

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/phoenix4012/souchier/pkg/storage"
)

// Options carries what some sources need besides their location.
type Options struct {
	HTTPTimeout time.Duration
	S3          S3Config
	Store       storage.Storage
}

// ParseSpec maps a configured source string to a Source:
//
//	literal                      built-in reference collection
//	file:<path>                  local CSV file
//	http(s)://...                remote CSV file
//	s3://<bucket>/<key>          CSV object in S3
//	sqlite://<path>?table=<t>    SQLite table
//	postgres://...?table=<t>     Postgres table
//	store:<name>                 snapshot from the snapshot store
func ParseSpec(spec string, opts Options) (Source, error) {
	spec = strings.TrimSpace(spec)

	switch {
	case spec == "" || spec == "literal":
		return NewLiteralSource(), nil

	case strings.HasPrefix(spec, "file://"):
		return &FileSource{Path: strings.TrimPrefix(spec, "file://")}, nil

	case strings.HasPrefix(spec, "file:"):
		return &FileSource{Path: strings.TrimPrefix(spec, "file:")}, nil

	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		return NewHTTPSource(spec, opts.HTTPTimeout), nil

	case strings.HasPrefix(spec, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(spec, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 source %q: expected s3://bucket/key", spec)
		}
		return &S3Source{Bucket: bucket, Key: key, Config: opts.S3}, nil

	case strings.HasPrefix(spec, "sqlite://"):
		path, table, err := splitTable(strings.TrimPrefix(spec, "sqlite://"))
		if err != nil {
			return nil, err
		}
		if path == "" {
			return nil, fmt.Errorf("invalid sqlite source %q: missing path", spec)
		}
		return &SQLSource{Driver: "sqlite", DSN: path, Table: table}, nil

	case strings.HasPrefix(spec, "postgres://"), strings.HasPrefix(spec, "postgresql://"):
		u, err := url.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres source: %w", err)
		}
		q := u.Query()
		table := q.Get("table")
		q.Del("table")
		u.RawQuery = q.Encode()
		return &SQLSource{Driver: "pgx", DSN: u.String(), Table: table}, nil

	case strings.HasPrefix(spec, "store:"):
		name := strings.TrimPrefix(spec, "store:")
		if name == "" {
			return nil, fmt.Errorf("invalid store source %q: missing snapshot name", spec)
		}
		if opts.Store == nil {
			return nil, fmt.Errorf("store source %q needs a snapshot store", spec)
		}
		return &StoreSource{Store: opts.Store, Snapshot: name}, nil
	}

	return nil, fmt.Errorf("unknown source %q", spec)
}

// splitTable separates "path?table=t" into path and table.
func splitTable(s string) (string, string, error) {
	path, rawQuery, _ := strings.Cut(s, "?")
	if rawQuery == "" {
		return path, "", nil
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", fmt.Errorf("invalid source query %q: %w", rawQuery, err)
	}
	return path, q.Get("table"), nil
}
