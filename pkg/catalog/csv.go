package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeCSV reads a UTF-8 delimited table with a header row naming at least
// Columns. A leading byte-order mark is ignored, extra columns are dropped.
func DecodeCSV(r io.Reader) (Catalog, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV header: empty input")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	positions := make([]int, len(Columns))
	for i, col := range Columns {
		pos, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		positions[i] = pos
	}

	var cat Catalog
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		for _, v := range row {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("row %d: invalid UTF-8", line)
			}
		}
		cat = append(cat, Record{
			Type:                row[positions[0]],
			NomBacterie:         row[positions[1]],
			LieuSouchier:        row[positions[2]],
			RepiquageNecessaire: row[positions[3]],
		})
	}

	if cat == nil {
		cat = Catalog{}
	}
	return cat, nil
}

// EncodeCSV writes records as UTF-8 with a byte-order mark, header first.
func EncodeCSV(w io.Writer, records []Record) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	writer := csv.NewWriter(bom)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(r.Fields()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return bom.Close()
}
