package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hdbpricing/backend/internal/domain"
)

// CSVRepository implements domain.EconomicRepository over a CSV document
// fetched from a URL
type CSVRepository struct {
	url    string
	client *resty.Client
}

// NewCSVRepository creates a repository reading the CSV at url
func NewCSVRepository(url string, timeout time.Duration) *CSVRepository {
	return &CSVRepository{
		url:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

// LoadIndicators downloads and parses the indicator CSV
func (r *CSVRepository) LoadIndicators(ctx context.Context) ([]domain.EconomicIndicatorRow, error) {
	resp, err := r.client.R().SetContext(ctx).Get(r.url)
	if err != nil {
		return nil, fmt.Errorf("csv: failed to fetch %s: %w", r.url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("csv: fetching %s returned status %d", r.url, resp.StatusCode())
	}

	rows, err := ReadCSV(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", r.url, err)
	}
	return rows, nil
}

// FileRepository implements domain.EconomicRepository over a local CSV file
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository reading the CSV file at path
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// LoadIndicators reads and parses the indicator CSV file
func (r *FileRepository) LoadIndicators(ctx context.Context) ([]domain.EconomicIndicatorRow, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("csv: failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", r.path, err)
	}
	return rows, nil
}

// ReadCSV parses an indicator table in CSV form
func ReadCSV(r io.Reader) ([]domain.EconomicIndicatorRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	return parseRecords(records)
}
