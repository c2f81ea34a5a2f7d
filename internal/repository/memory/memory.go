package memory

import (
	"context"

	"github.com/hdbpricing/backend/internal/domain"
)

// Sample data covers the full forecast range.
const (
	SampleFirstYear = 1990
	SampleLastYear  = 2033
)

// MemoryRepository implements domain.EconomicRepository over fixed rows.
// It backs ECONOMIC_SOURCE=memory and the tests.
type MemoryRepository struct {
	rows []domain.EconomicIndicatorRow
}

// NewMemoryRepository creates a repository serving rows
func NewMemoryRepository(rows []domain.EconomicIndicatorRow) *MemoryRepository {
	return &MemoryRepository{rows: rows}
}

// LoadIndicators returns a copy of the configured rows
func (r *MemoryRepository) LoadIndicators(ctx context.Context) ([]domain.EconomicIndicatorRow, error) {
	out := make([]domain.EconomicIndicatorRow, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

// NewSampleRepository serves SampleRows over the full forecast range
func NewSampleRepository() *MemoryRepository {
	return NewMemoryRepository(SampleRows(SampleFirstYear, SampleLastYear))
}

// SampleRows returns a complete indicator row for every year in [from, to]
// with values derived from the year
func SampleRows(from, to int) []domain.EconomicIndicatorRow {
	var rows []domain.EconomicIndicatorRow
	for y := from; y <= to; y++ {
		t := float64(y - 1990)
		rows = append(rows, domain.EconomicIndicatorRow{
			Year: y,
			Indicators: domain.Indicators{
				BondYield5Y:          ptr(2.5 + 0.01*t),
				GDPCurrentPrices:     ptr(70000 + 12000*t),
				GDPPerCapita:         ptr(20000 + 2000*t),
				PersonalIncome:       ptr(30000 + 5000*t),
				UnemploymentRate:     ptr(2.0 + 0.02*t),
				CoreInflation:        ptr(1.5),
				MedianHouseholdInc:   ptr(3000 + 180*t),
				CementMaterials:      ptr(95 + 0.8*t),
				ClayMaterials:        ptr(102 - 0.3*t),
				ResidentPopulation:   ptr(2700000 + 40000*t),
				ResidentPopulationGR: ptr(1.2),
			},
		})
	}
	return rows
}

func ptr(v float64) *float64 {
	return &v
}
