package domain

import (
	"fmt"
	"sort"
)

// Economic indicator column names as published in the indicator dataset.
const (
	ColBondYield5Y          = "5 year bond yields"
	ColGDPCurrentPrices     = "GDPm (Current Prices)"
	ColGDPPerCapita         = "GDP per capita"
	ColPersonalIncome       = "Personal Income m"
	ColUnemploymentRate     = "Unemployment Rate"
	ColCoreInflation        = "Core inflation"
	ColMedianHouseholdInc   = "Median Household Inc"
	ColCementMaterials      = "Lime, Cement, & Fabricated Construction Materials Excl Glass & Clay Materials"
	ColClayMaterials        = "Clay Construction Materials & Refractory Construction Materials"
	ColResidentPopulation   = "ResidentPopulation"
	ColResidentPopulationGR = "ResidentPopulation_Growth_Rate"

	// ColYear is the key column of the indicator dataset.
	ColYear = "year"
)

// IndicatorColumns lists the indicator columns in dataset order.
var IndicatorColumns = []string{
	ColBondYield5Y,
	ColGDPCurrentPrices,
	ColGDPPerCapita,
	ColPersonalIncome,
	ColUnemploymentRate,
	ColCoreInflation,
	ColMedianHouseholdInc,
	ColCementMaterials,
	ColClayMaterials,
	ColResidentPopulation,
	ColResidentPopulationGR,
}

// Indicators holds one year of macroeconomic indicators.
// A nil field means the value is missing for that year.
type Indicators struct {
	BondYield5Y          *float64 `json:"bond_yield_5y"`
	GDPCurrentPrices     *float64 `json:"gdp_current_prices"`
	GDPPerCapita         *float64 `json:"gdp_per_capita"`
	PersonalIncome       *float64 `json:"personal_income"`
	UnemploymentRate     *float64 `json:"unemployment_rate"`
	CoreInflation        *float64 `json:"core_inflation"`
	MedianHouseholdInc   *float64 `json:"median_household_inc"`
	CementMaterials      *float64 `json:"cement_materials"`
	ClayMaterials        *float64 `json:"clay_materials"`
	ResidentPopulation   *float64 `json:"resident_population"`
	ResidentPopulationGR *float64 `json:"resident_population_growth_rate"`
}

// fields returns pointers to every indicator field, aligned with IndicatorColumns.
func (ind *Indicators) fields() []**float64 {
	return []**float64{
		&ind.BondYield5Y,
		&ind.GDPCurrentPrices,
		&ind.GDPPerCapita,
		&ind.PersonalIncome,
		&ind.UnemploymentRate,
		&ind.CoreInflation,
		&ind.MedianHouseholdInc,
		&ind.CementMaterials,
		&ind.ClayMaterials,
		&ind.ResidentPopulation,
		&ind.ResidentPopulationGR,
	}
}

// Set assigns the value of the named indicator column.
// It reports false when the column is not an indicator column.
func (ind *Indicators) Set(column string, value *float64) bool {
	for i, f := range ind.fields() {
		if IndicatorColumns[i] == column {
			*f = value
			return true
		}
	}
	return false
}

// Get returns the value of the named indicator column.
func (ind Indicators) Get(column string) (*float64, bool) {
	for i, f := range ind.fields() {
		if IndicatorColumns[i] == column {
			return *f, true
		}
	}
	return nil, false
}

// Values returns the indicator values in IndicatorColumns order.
func (ind Indicators) Values() []*float64 {
	fields := ind.fields()
	out := make([]*float64, len(fields))
	for i, f := range fields {
		out[i] = *f
	}
	return out
}

// Complete reports whether every indicator has a value.
func (ind Indicators) Complete() bool {
	for _, v := range ind.Values() {
		if v == nil {
			return false
		}
	}
	return true
}

// EconomicIndicatorRow is one year of the economic data table.
type EconomicIndicatorRow struct {
	Year       int        `json:"year"`
	Indicators Indicators `json:"indicators"`
}

// EconomicTable is the year-indexed indicator table.
// It is built once and never mutated, so it is safe for concurrent reads.
type EconomicTable struct {
	rows  map[int]EconomicIndicatorRow
	years []int
}

// NewEconomicTable indexes rows by year. Duplicate years are rejected.
func NewEconomicTable(rows []EconomicIndicatorRow) (*EconomicTable, error) {
	t := &EconomicTable{
		rows:  make(map[int]EconomicIndicatorRow, len(rows)),
		years: make([]int, 0, len(rows)),
	}
	for _, r := range rows {
		if _, dup := t.rows[r.Year]; dup {
			return nil, fmt.Errorf("economic table: duplicate year %d", r.Year)
		}
		t.rows[r.Year] = r
		t.years = append(t.years, r.Year)
	}
	sort.Ints(t.years)
	return t, nil
}

// Lookup returns the row for year, if present.
func (t *EconomicTable) Lookup(year int) (EconomicIndicatorRow, bool) {
	r, ok := t.rows[year]
	return r, ok
}

// Len returns the number of years in the table.
func (t *EconomicTable) Len() int {
	return len(t.years)
}

// Span returns the first and last year covered. ok is false for an empty table.
func (t *EconomicTable) Span() (first, last int, ok bool) {
	if len(t.years) == 0 {
		return 0, 0, false
	}
	return t.years[0], t.years[len(t.years)-1], true
}
