package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// DefaultURL is the published registry file.
const DefaultURL = "https://raw.githubusercontent.com/Phoenix4012/Souchier/main/bacteries_souchier.csv"

// HTTPSource fetches a CSV file by URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTP source with its own client bounded by timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Name returns the URL
func (s *HTTPSource) Name() string { return s.URL }

// Load downloads and decodes the file. Any non-2xx status is a failure.
func (s *HTTPSource) Load(ctx context.Context) (catalog.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return catalog.DecodeCSV(resp.Body)
}
