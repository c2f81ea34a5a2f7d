package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbpricing/backend/internal/domain"
)

func testArtifact() LinearArtifact {
	return LinearArtifact{
		Version:   domain.FeatureContractVersion,
		Columns:   domain.FeatureColumns,
		Intercept: 400000,
		Numeric: map[string]NumericTerm{
			domain.ColFloorAreaSqm:   {Mean: 90, Scale: 10, Weight: 20000},
			domain.ColGDPPerCapita:   {Mean: 50000, Scale: 10000, Weight: 5000},
			domain.ColWalkingTimeMRT: {Mean: 500, Scale: 500, Weight: -1000},
		},
		Categorical: map[string]map[string]float64{
			domain.ColTown:     {"HOUGANG": -7000},
			domain.ColFlatType: {"3 ROOM": -30000},
		},
	}
}

func TestLinearModel_Predict(t *testing.T) {
	m, err := NewLinearModel(testArtifact())
	require.NoError(t, err)

	gdp := 60000.0
	row := domain.FeatureRow{
		Town:           "HOUGANG",
		FlatType:       "3 ROOM",
		FloorAreaSqm:   95,
		WalkingTimeMRT: 1500,
		Indicators:     domain.Indicators{GDPPerCapita: &gdp},
	}

	out, err := m.Predict(context.Background(), []domain.FeatureRow{row})
	require.NoError(t, err)
	require.Len(t, out, 1)
	// 400000 - 7000 - 30000 + 20000*0.5 + 5000*1 - 1000*2
	assert.InDelta(t, 376000.0, out[0], 1e-6)
}

func TestLinearModel_UnknownCategory(t *testing.T) {
	m, err := NewLinearModel(testArtifact())
	require.NoError(t, err)

	gdp := 50000.0
	row := domain.FeatureRow{
		Town:           "ATLANTIS",
		FlatType:       "3 ROOM",
		FloorAreaSqm:   90,
		WalkingTimeMRT: 500,
		Indicators:     domain.Indicators{GDPPerCapita: &gdp},
	}

	out, err := m.Predict(context.Background(), []domain.FeatureRow{row})
	require.NoError(t, err)
	assert.InDelta(t, 370000.0, out[0], 1e-6)
}

func TestLinearModel_MissingIndicator(t *testing.T) {
	row := domain.FeatureRow{Town: "HOUGANG", FloorAreaSqm: 90, WalkingTimeMRT: 500}

	strict, err := NewLinearModel(testArtifact())
	require.NoError(t, err)
	_, err = strict.Predict(context.Background(), []domain.FeatureRow{row})
	assert.True(t, errors.Is(err, ErrMissingFeature))

	artifact := testArtifact()
	artifact.ImputeMissing = true
	imputing, err := NewLinearModel(artifact)
	require.NoError(t, err)
	out, err := imputing.Predict(context.Background(), []domain.FeatureRow{row})
	require.NoError(t, err)
	assert.InDelta(t, 393000.0, out[0], 1e-6)
}

func TestNewLinearModel_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *LinearArtifact)
	}{
		{name: "Wrong version", mutate: func(a *LinearArtifact) { a.Version = "hdb-features/v0" }},
		{name: "Drifted columns", mutate: func(a *LinearArtifact) { a.Columns = domain.FeatureColumns[:21] }},
		{name: "Zero scale", mutate: func(a *LinearArtifact) {
			a.Numeric[domain.ColSoldYear] = NumericTerm{Mean: 2000}
		}},
		{name: "Numeric term on categorical", mutate: func(a *LinearArtifact) {
			a.Numeric[domain.ColTown] = NumericTerm{Scale: 1}
		}},
		{name: "Categorical weights on numeric", mutate: func(a *LinearArtifact) {
			a.Categorical[domain.ColSoldYear] = map[string]float64{"2020": 1}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testArtifact()
			tt.mutate(&a)
			_, err := NewLinearModel(a)
			assert.Error(t, err)
		})
	}
}

func TestLoadLinearModel_BundledArtifact(t *testing.T) {
	m, err := LoadLinearModel(filepath.Join("..", "..", "model", "linear_pipeline.json"))
	require.NoError(t, err)

	schema, err := m.InputSchema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureColumns, schema)

	a := NewFeatureAssembler(testTable(t, 1990, 2033))
	out, err := m.Predict(context.Background(), a.AssembleSingle(singleRequest(2028)))
	require.NoError(t, err)
	assert.Greater(t, out[0], 0.0)
}

func TestLoadLinearModel_Errors(t *testing.T) {
	_, err := LoadLinearModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadLinearModel(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse artifact")
}
