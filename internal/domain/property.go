package domain

// PropertyAttributes describes a resale flat as supplied by the caller.
type PropertyAttributes struct {
	Town              string  `json:"town"`
	FlatType          string  `json:"flat_type"`
	StoreyRange       string  `json:"storey_range"`
	FloorAreaSqm      float64 `json:"floor_area_sqm"`
	FlatModel         string  `json:"flat_model"`
	LeaseCommenceDate int     `json:"lease_commence_date"`
	MostClosestMRT    string  `json:"most_closest_mrt"`
	WalkingTimeMRT    int     `json:"walking_time_mrt"`
}

// SinglePredictionRequest asks for the price of a flat sold in Year.
// SoldRemainingLease is taken as supplied, it is not derived from Year.
type SinglePredictionRequest struct {
	PropertyAttributes
	Year               int `json:"year"`
	SoldRemainingLease int `json:"sold_remaining_lease"`
	MaxFloorLvl        int `json:"max_floor_lvl"`
}

// RangePredictionRequest asks for a forecast across the whole resale window.
// Sale year and remaining lease are derived per forecast year.
type RangePredictionRequest struct {
	PropertyAttributes
	MaxFloorLvl int `json:"max_floor_lvl"`
}

// SinglePrediction is the rounded price for one sale year.
type SinglePrediction struct {
	HDBPricing int64 `json:"hdb_pricing"`

	// EconomicDataMissing is set when the sale year had no indicator row.
	EconomicDataMissing bool `json:"-"`
}

// ForecastPoint is one year of a range forecast.
type ForecastPoint struct {
	SoldYear int   `json:"sold_year"`
	Forecast int64 `json:"forecast"`

	EconomicDataMissing bool `json:"-"`
}
