package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// Supported formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Default download names
const (
	FileNameCSV  = "souches_filtrees.csv"
	FileNameJSON = "souches_filtrees.json"
)

// Result contains stats about an export
type Result struct {
	RecordsExported int       `json:"records_exported"`
	Format          string    `json:"format"`
	ExportedAt      time.Time `json:"exported_at"`
}

// Document is the JSON export layout
type Document struct {
	Metadata struct {
		ExportedAt  time.Time        `json:"exported_at"`
		Total       int              `json:"total"`
		RecordCount int              `json:"record_count"`
		Criteria    catalog.Criteria `json:"criteria"`
		Version     string           `json:"version"`
	} `json:"metadata"`
	Records catalog.View `json:"records"`
}

// WriteCSV writes the view as UTF-8 CSV with a byte-order mark.
func WriteCSV(w io.Writer, view catalog.View) (*Result, error) {
	if err := catalog.EncodeCSV(w, view); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}
	return &Result{
		RecordsExported: len(view),
		Format:          FormatCSV,
		ExportedAt:      time.Now(),
	}, nil
}

// WriteJSON writes the filtered records of summary with export metadata.
func WriteJSON(w io.Writer, summary catalog.Summary) (*Result, error) {
	var doc Document
	doc.Metadata.ExportedAt = time.Now()
	doc.Metadata.Total = summary.Total
	doc.Metadata.RecordCount = len(summary.Records)
	doc.Metadata.Criteria = summary.Criteria
	doc.Metadata.Version = "1.0"
	doc.Records = summary.Records
	if doc.Records == nil {
		doc.Records = catalog.View{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	return &Result{
		RecordsExported: len(summary.Records),
		Format:          FormatJSON,
		ExportedAt:      doc.Metadata.ExportedAt,
	}, nil
}
