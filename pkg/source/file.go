package source

import (
	"context"
	"fmt"
	"os"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// FileSource reads a CSV file from local disk.
type FileSource struct {
	Path string
}

// Name returns the file path
func (s *FileSource) Name() string { return "file:" + s.Path }

// Load opens and decodes the file
func (s *FileSource) Load(ctx context.Context) (catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()
	return catalog.DecodeCSV(f)
}
