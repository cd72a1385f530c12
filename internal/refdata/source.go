package refdata

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// RowSource supplies one raw reference table. The loader does not care whether
// rows come from a local file or a published spreadsheet export URL.
type RowSource interface {
	Fetch(ctx context.Context) (Table, error)
}

// NewSource picks a source implementation from the configured location.
func NewSource(location string, client *http.Client) RowSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{url: location, client: client}
	}
	return &FileSource{path: location}
}

// FileSource reads a CSV table from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource builds a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch opens and parses the file.
func (s *FileSource) Fetch(ctx context.Context) (Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return Table{}, fmt.Errorf("open reference file %s: %w", s.path, err)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f)
}

// HTTPSource downloads a CSV table from a URL (e.g. a Drive export link).
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource builds a URL-backed source.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	return &HTTPSource{url: url, client: client}
}

// Fetch downloads and parses the table.
func (s *HTTPSource) Fetch(ctx context.Context) (Table, error) {
	client := s.client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Table{}, fmt.Errorf("build reference request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("fetch reference table: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return Table{}, fmt.Errorf("fetch reference table: unexpected status %d", resp.StatusCode)
	}

	return ReadCSV(resp.Body)
}
