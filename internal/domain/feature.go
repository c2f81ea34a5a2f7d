package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FeatureContractVersion identifies the FeatureColumns layout. Model artifacts
// declare the version they were trained against.
const FeatureContractVersion = "hdb-features/v1"

// Property column names of the feature contract.
const (
	ColTown               = "town"
	ColFlatType           = "flat_type"
	ColStoreyRange        = "storey_range"
	ColFloorAreaSqm       = "floor_area_sqm"
	ColFlatModel          = "flat_model"
	ColLeaseCommenceDate  = "lease_commence_date"
	ColSoldYear           = "sold_year"
	ColSoldRemainingLease = "sold_remaining_lease"
	ColMaxFloorLvl        = "max_floor_lvl"
	ColMostClosestMRT     = "most_closest_mrt"
	ColWalkingTimeMRT     = "walking_time_mrt"
)

// FeatureColumns is the ordered input contract of the pricing model.
var FeatureColumns = []string{
	ColTown,
	ColFlatType,
	ColStoreyRange,
	ColFloorAreaSqm,
	ColFlatModel,
	ColLeaseCommenceDate,
	ColSoldYear,
	ColSoldRemainingLease,
	ColMaxFloorLvl,
	ColBondYield5Y,
	ColGDPCurrentPrices,
	ColGDPPerCapita,
	ColPersonalIncome,
	ColUnemploymentRate,
	ColCoreInflation,
	ColMedianHouseholdInc,
	ColCementMaterials,
	ColClayMaterials,
	ColMostClosestMRT,
	ColWalkingTimeMRT,
	ColResidentPopulation,
	ColResidentPopulationGR,
}

// CategoricalColumns are the string-valued feature columns.
var CategoricalColumns = map[string]bool{
	ColTown:           true,
	ColFlatType:       true,
	ColStoreyRange:    true,
	ColFlatModel:      true,
	ColMostClosestMRT: true,
}

// ErrSchemaMismatch is returned when a column list drifts from FeatureColumns.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// ValidateFeatureSchema checks that columns equals FeatureColumns, names and order.
func ValidateFeatureSchema(columns []string) error {
	if len(columns) != len(FeatureColumns) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrSchemaMismatch, len(columns), len(FeatureColumns))
	}
	for i, c := range columns {
		if c != FeatureColumns[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, c, FeatureColumns[i])
		}
	}
	return nil
}

// FeatureRow is one model input row.
type FeatureRow struct {
	Town               string
	FlatType           string
	StoreyRange        string
	FloorAreaSqm       float64
	FlatModel          string
	LeaseCommenceDate  int
	SoldYear           int
	SoldRemainingLease int
	MaxFloorLvl        int
	MostClosestMRT     string
	WalkingTimeMRT     int
	Indicators         Indicators

	// EconomicMatched is false when SoldYear had no row in the economic table.
	EconomicMatched bool
}

// Values returns the row in FeatureColumns order. Strings and numbers keep
// their types; a missing indicator is nil.
func (r FeatureRow) Values() []any {
	ind := r.Indicators
	return []any{
		r.Town,
		r.FlatType,
		r.StoreyRange,
		r.FloorAreaSqm,
		r.FlatModel,
		r.LeaseCommenceDate,
		r.SoldYear,
		r.SoldRemainingLease,
		r.MaxFloorLvl,
		nullable(ind.BondYield5Y),
		nullable(ind.GDPCurrentPrices),
		nullable(ind.GDPPerCapita),
		nullable(ind.PersonalIncome),
		nullable(ind.UnemploymentRate),
		nullable(ind.CoreInflation),
		nullable(ind.MedianHouseholdInc),
		nullable(ind.CementMaterials),
		nullable(ind.ClayMaterials),
		r.MostClosestMRT,
		r.WalkingTimeMRT,
		nullable(ind.ResidentPopulation),
		nullable(ind.ResidentPopulationGR),
	}
}

// Record returns the row keyed by column name.
func (r FeatureRow) Record() map[string]any {
	values := r.Values()
	out := make(map[string]any, len(values))
	for i, v := range values {
		out[FeatureColumns[i]] = v
	}
	return out
}

// MissingColumns lists the contract columns with no value.
func (r FeatureRow) MissingColumns() []string {
	var missing []string
	for i, v := range r.Values() {
		if v == nil {
			missing = append(missing, FeatureColumns[i])
		}
	}
	return missing
}

func (r FeatureRow) String() string {
	return fmt.Sprintf("FeatureRow{%s %s sold_year=%d missing=[%s]}",
		r.Town, r.FlatType, r.SoldYear, strings.Join(r.MissingColumns(), ", "))
}

// nullable unwraps p so that a missing value is an untyped nil.
func nullable(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
