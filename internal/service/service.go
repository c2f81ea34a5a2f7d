package service

import (
	"context"
	"fmt"

	"github.com/hdbpricing/backend/internal/domain"
)

// EconomicRepository is re-exported from domain for convenience
type EconomicRepository = domain.EconomicRepository

// LoadEconomicTable reads every indicator row from repo and indexes it by year
func LoadEconomicTable(ctx context.Context, repo EconomicRepository) (*domain.EconomicTable, error) {
	rows, err := repo.LoadIndicators(ctx)
	if err != nil {
		return nil, fmt.Errorf("economic data: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("economic data: source has no rows")
	}

	return domain.NewEconomicTable(rows)
}

// ValidateModelSchema fails when the model reports an input schema that
// differs from the feature contract. Models that cannot describe their
// schema are accepted as is.
func ValidateModelSchema(ctx context.Context, model domain.Model) error {
	describer, ok := model.(domain.SchemaDescriber)
	if !ok {
		return nil
	}

	columns, err := describer.InputSchema(ctx)
	if err != nil {
		return fmt.Errorf("model schema: %w", err)
	}

	return domain.ValidateFeatureSchema(columns)
}
