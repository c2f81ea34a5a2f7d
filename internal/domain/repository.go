package domain

import (
	"context"
	"errors"
)

// ErrPredictionCount is returned when a model answers with a different number
// of outputs than rows it was given.
var ErrPredictionCount = errors.New("model returned wrong number of predictions")

// ErrInvalidPrediction is returned when a model output is not a finite price
// that fits in an int64.
var ErrInvalidPrediction = errors.New("model returned an invalid prediction")

// EconomicRepository defines the interface for loading the economic data table
// This follows the Dependency Inversion Principle - domain defines the interface
type EconomicRepository interface {
	// LoadIndicators returns every row of the indicator dataset
	LoadIndicators(ctx context.Context) ([]EconomicIndicatorRow, error)
}

// Model is a fitted pricing model.
type Model interface {
	// Predict returns exactly one output per row, in row order.
	Predict(ctx context.Context, rows []FeatureRow) ([]float64, error)
}

// SchemaDescriber is implemented by models that can report the columns they
// were trained on.
type SchemaDescriber interface {
	InputSchema(ctx context.Context) ([]string, error)
}
