package tabular

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hdbpricing/backend/internal/domain"
	"github.com/hdbpricing/backend/pkg/utils"
)

// ErrMissingColumn is returned when the header lacks year or an indicator column.
var ErrMissingColumn = errors.New("missing column")

// parseRecords turns a header row plus data rows into indicator rows.
// Columns outside the indicator set are ignored; rows shorter than the
// header are padded with missing values.
func parseRecords(records [][]string) ([]domain.EconomicIndicatorRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrMissingColumn)
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	yearCol, ok := index[domain.ColYear]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, domain.ColYear)
	}
	indicatorCols := make([]int, len(domain.IndicatorColumns))
	for i, name := range domain.IndicatorColumns {
		col, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		indicatorCols[i] = col
	}

	rows := make([]domain.EconomicIndicatorRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		if blank(rec) {
			continue
		}

		year, err := utils.ParseYear(cell(rec, yearCol))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := domain.EconomicIndicatorRow{Year: year}
		for i, col := range indicatorCols {
			v, err := utils.ParseNullableNumber(cell(rec, col))
			if err != nil {
				return nil, fmt.Errorf("line %d, %s: %w", line, domain.IndicatorColumns[i], err)
			}
			row.Indicators.Set(domain.IndicatorColumns[i], v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
