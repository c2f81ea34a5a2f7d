package service

import (
	"github.com/hdbpricing/backend/internal/domain"
)

// Resale window policy.
const (
	// MinHoldingYears is how long after lease commencement a flat can first be resold.
	MinHoldingYears = 4
	// ForecastHorizonYear is the last year covered by a range forecast.
	ForecastHorizonYear = 2033
	// LeaseTermYears is the standard lease length from commencement.
	LeaseTermYears = 99
	// EconomicFloorYear is the first year with usable indicator data.
	EconomicFloorYear = 1990
)

// FeatureAssembler builds model input rows from requests and the economic table.
// It holds no mutable state and is safe for concurrent use.
type FeatureAssembler struct {
	econ *domain.EconomicTable
}

// NewFeatureAssembler creates a new assembler over econ
func NewFeatureAssembler(econ *domain.EconomicTable) *FeatureAssembler {
	return &FeatureAssembler{econ: econ}
}

// AssembleSingle builds the one-row feature table for a single sale year.
// A year with no economic row leaves every indicator missing.
func (a *FeatureAssembler) AssembleSingle(req domain.SinglePredictionRequest) []domain.FeatureRow {
	row := baseRow(req.PropertyAttributes, req.MaxFloorLvl)
	row.SoldYear = req.Year
	row.SoldRemainingLease = req.SoldRemainingLease
	a.join(&row)
	return []domain.FeatureRow{row}
}

// AssembleRange builds one row per year of the resale window, ascending by
// sale year. Years before EconomicFloorYear are dropped; years without an
// economic row are kept with missing indicators.
func (a *FeatureAssembler) AssembleRange(req domain.RangePredictionRequest) []domain.FeatureRow {
	if req.LeaseCommenceDate > ForecastHorizonYear-MinHoldingYears {
		return []domain.FeatureRow{}
	}
	first, _ := ResaleWindow(req.LeaseCommenceDate)
	if first < EconomicFloorYear {
		first = EconomicFloorYear
	}

	rows := make([]domain.FeatureRow, 0, ForecastHorizonYear-first+1)
	for soldYear := first; soldYear <= ForecastHorizonYear; soldYear++ {
		row := baseRow(req.PropertyAttributes, req.MaxFloorLvl)
		row.SoldYear = soldYear
		row.SoldRemainingLease = LeaseTermYears - (soldYear - req.LeaseCommenceDate)
		a.join(&row)
		rows = append(rows, row)
	}
	return rows
}

// ResaleWindow returns the first resale year and the window length for a
// lease that commenced in leaseCommence. length may be zero or negative.
func ResaleWindow(leaseCommence int) (start, length int) {
	start = leaseCommence + MinHoldingYears
	length = ForecastHorizonYear + 1 - leaseCommence - MinHoldingYears
	return start, length
}

func (a *FeatureAssembler) join(row *domain.FeatureRow) {
	econ, ok := a.econ.Lookup(row.SoldYear)
	if !ok {
		return
	}
	row.Indicators = econ.Indicators
	row.EconomicMatched = true
}

func baseRow(attrs domain.PropertyAttributes, maxFloorLvl int) domain.FeatureRow {
	return domain.FeatureRow{
		Town:              attrs.Town,
		FlatType:          attrs.FlatType,
		StoreyRange:       attrs.StoreyRange,
		FloorAreaSqm:      attrs.FloorAreaSqm,
		FlatModel:         attrs.FlatModel,
		LeaseCommenceDate: attrs.LeaseCommenceDate,
		MaxFloorLvl:       maxFloorLvl,
		MostClosestMRT:    attrs.MostClosestMRT,
		WalkingTimeMRT:    attrs.WalkingTimeMRT,
	}
}
