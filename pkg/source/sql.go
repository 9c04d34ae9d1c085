package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "souches"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSource reads the registry from a table whose columns carry the CSV
// column names. Driver is "sqlite" or "pgx".
type SQLSource struct {
	Driver string
	DSN    string
	Table  string

	// DB overrides opening Driver/DSN (tests).
	DB *sql.DB
}

// Name returns driver and table; the DSN may hold credentials.
func (s *SQLSource) Name() string {
	return fmt.Sprintf("%s:%s", s.Driver, s.table())
}

func (s *SQLSource) table() string {
	if s.Table == "" {
		return DefaultTable
	}
	return s.Table
}

// Load selects every row of the table in storage order
func (s *SQLSource) Load(ctx context.Context) (catalog.Catalog, error) {
	table := s.table()
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db := s.DB
	if db == nil {
		opened, err := sql.Open(s.Driver, s.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", s.Driver, err)
		}
		defer opened.Close()
		db = opened
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	positions := make([]int, len(catalog.Columns))
	for i, col := range catalog.Columns {
		pos, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", catalog.ErrMissingColumn, col)
		}
		positions[i] = pos
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	cat := catalog.Catalog{}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cat = append(cat, catalog.Record{
			Type:                values[positions[0]].String,
			NomBacterie:         values[positions[1]].String,
			LieuSouchier:        values[positions[2]].String,
			RepiquageNecessaire: values[positions[3]].String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return cat, nil
}
