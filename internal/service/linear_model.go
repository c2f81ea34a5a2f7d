package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/hdbpricing/backend/internal/domain"
)

// ErrMissingFeature is returned when a row has no value for a numeric feature
// and the artifact does not impute.
var ErrMissingFeature = errors.New("missing feature value")

// NumericTerm is a standardized linear term: weight * (x - mean) / scale.
type NumericTerm struct {
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
	Weight float64 `json:"weight"`
}

// LinearArtifact is the serialized form of a fitted linear pricing pipeline.
type LinearArtifact struct {
	Version       string                        `json:"version"`
	Columns       []string                      `json:"columns"`
	Intercept     float64                       `json:"intercept"`
	ImputeMissing bool                          `json:"impute_missing"`
	Numeric       map[string]NumericTerm        `json:"numeric"`
	Categorical   map[string]map[string]float64 `json:"categorical"`
}

// LinearModel evaluates a LinearArtifact in process.
// Unknown categories contribute nothing, as with an ignore-unknown one-hot encoder.
type LinearModel struct {
	artifact LinearArtifact
}

// LoadLinearModel reads and validates an artifact from path
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("linear_model: failed to read artifact: %w", err)
	}

	var artifact LinearArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("linear_model: failed to parse artifact: %w", err)
	}

	return NewLinearModel(artifact)
}

// NewLinearModel validates artifact against the feature contract
func NewLinearModel(artifact LinearArtifact) (*LinearModel, error) {
	if artifact.Version != domain.FeatureContractVersion {
		return nil, fmt.Errorf("linear_model: %w: artifact version %q, want %q",
			domain.ErrSchemaMismatch, artifact.Version, domain.FeatureContractVersion)
	}
	if err := domain.ValidateFeatureSchema(artifact.Columns); err != nil {
		return nil, fmt.Errorf("linear_model: %w", err)
	}

	known := make(map[string]bool, len(domain.FeatureColumns))
	for _, c := range domain.FeatureColumns {
		known[c] = true
	}
	for col, term := range artifact.Numeric {
		if !known[col] || domain.CategoricalColumns[col] {
			return nil, fmt.Errorf("linear_model: %q is not a numeric feature", col)
		}
		if term.Scale == 0 {
			return nil, fmt.Errorf("linear_model: zero scale for %q", col)
		}
	}
	for col := range artifact.Categorical {
		if !domain.CategoricalColumns[col] {
			return nil, fmt.Errorf("linear_model: %q is not a categorical feature", col)
		}
	}

	return &LinearModel{artifact: artifact}, nil
}

// InputSchema returns the columns the artifact was fitted on
func (m *LinearModel) InputSchema(ctx context.Context) ([]string, error) {
	return append([]string(nil), m.artifact.Columns...), nil
}

// Predict scores every row
func (m *LinearModel) Predict(ctx context.Context, rows []domain.FeatureRow) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		y, err := m.score(r)
		if err != nil {
			return nil, fmt.Errorf("linear_model: row %d (sold_year %d): %w", i, r.SoldYear, err)
		}
		out[i] = y
	}
	return out, nil
}

func (m *LinearModel) score(r domain.FeatureRow) (float64, error) {
	y := m.artifact.Intercept
	for i, v := range r.Values() {
		col := domain.FeatureColumns[i]

		if domain.CategoricalColumns[col] {
			s, _ := v.(string)
			y += m.artifact.Categorical[col][s]
			continue
		}

		term, ok := m.artifact.Numeric[col]
		if !ok {
			continue
		}

		var x float64
		switch n := v.(type) {
		case float64:
			x = n
		case int:
			x = float64(n)
		case nil:
			if !m.artifact.ImputeMissing {
				return 0, fmt.Errorf("%w: %s", ErrMissingFeature, col)
			}
			x = term.Mean
		default:
			return 0, fmt.Errorf("unexpected value %v for %s", v, col)
		}
		y += term.Weight * (x - term.Mean) / term.Scale
	}
	return y, nil
}
