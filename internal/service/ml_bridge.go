package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/hdbpricing/backend/internal/domain"
)

// MLBridge handles communication with the Python model-serving sidecar that
// hosts the fitted pricing pipeline
type MLBridge struct {
	client *resty.Client
}

// bridgePredictRequest is a column-oriented feature table
type bridgePredictRequest struct {
	Version string   `json:"version"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type bridgePredictResponse struct {
	Predictions []float64 `json:"predictions"`
}

type bridgeSchemaResponse struct {
	Version string   `json:"version"`
	Columns []string `json:"columns"`
}

// NewMLBridge creates a new ML bridge
func NewMLBridge(serviceURL string, timeout time.Duration) *MLBridge {
	client := resty.New().
		SetBaseURL(serviceURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	return &MLBridge{client: client}
}

// Predict sends the feature table to the sidecar and returns its outputs
func (b *MLBridge) Predict(ctx context.Context, rows []domain.FeatureRow) ([]float64, error) {
	body := bridgePredictRequest{
		Version: domain.FeatureContractVersion,
		Columns: domain.FeatureColumns,
		Rows:    make([][]any, len(rows)),
	}
	for i, r := range rows {
		body.Rows[i] = r.Values()
	}

	var out bridgePredictResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("ml_bridge: predict request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ml_bridge: predict returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Predictions) != len(rows) {
		return nil, fmt.Errorf("ml_bridge: %w: got %d for %d rows", domain.ErrPredictionCount, len(out.Predictions), len(rows))
	}

	return out.Predictions, nil
}

// InputSchema asks the sidecar which columns its pipeline was fitted on
func (b *MLBridge) InputSchema(ctx context.Context) ([]string, error) {
	var out bridgeSchemaResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/schema")
	if err != nil {
		return nil, fmt.Errorf("ml_bridge: schema request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ml_bridge: schema returned status %d", resp.StatusCode())
	}
	if out.Version != "" && out.Version != domain.FeatureContractVersion {
		return nil, fmt.Errorf("ml_bridge: %w: sidecar serves %q, want %q",
			domain.ErrSchemaMismatch, out.Version, domain.FeatureContractVersion)
	}

	return out.Columns, nil
}

// Health checks ML service connectivity
func (b *MLBridge) Health(ctx context.Context) error {
	resp, err := b.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("ml_bridge: health check failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("ml_bridge: health check returned status %d", resp.StatusCode())
	}

	return nil
}
