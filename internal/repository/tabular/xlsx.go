package tabular

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hdbpricing/backend/internal/domain"
)

// XLSXRepository implements domain.EconomicRepository over one sheet of a workbook
type XLSXRepository struct {
	path  string
	sheet string
}

// NewXLSXRepository creates a repository reading sheet of the workbook at path.
// An empty sheet name selects the first sheet.
func NewXLSXRepository(path, sheet string) *XLSXRepository {
	return &XLSXRepository{path: path, sheet: sheet}
}

// LoadIndicators reads and parses the indicator sheet
func (r *XLSXRepository) LoadIndicators(ctx context.Context) ([]domain.EconomicIndicatorRow, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: %s has no sheets", r.path)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: failed to read sheet %q: %w", sheet, err)
	}

	rows, err := parseRecords(records)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %s: %w", r.path, err)
	}
	return rows, nil
}
