package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hdbpricing/backend/internal/domain"
)

// PostgresRepository implements domain.EconomicRepository over the
// economic_indicators table
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadIndicators retrieves every indicator year from PostgreSQL
func (r *PostgresRepository) LoadIndicators(ctx context.Context) ([]domain.EconomicIndicatorRow, error) {
	query := `
		SELECT year, bond_yield_5y, gdp_current_prices, gdp_per_capita,
			   personal_income, unemployment_rate, core_inflation,
			   median_household_inc, cement_materials, clay_materials,
			   resident_population, resident_population_growth_rate
		FROM economic_indicators
		ORDER BY year
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query economic indicators: %w", err)
	}
	defer rows.Close()

	var results []domain.EconomicIndicatorRow
	for rows.Next() {
		var e domain.EconomicIndicatorRow
		ind := &e.Indicators
		err := rows.Scan(
			&e.Year, &ind.BondYield5Y, &ind.GDPCurrentPrices, &ind.GDPPerCapita,
			&ind.PersonalIncome, &ind.UnemploymentRate, &ind.CoreInflation,
			&ind.MedianHouseholdInc, &ind.CementMaterials, &ind.ClayMaterials,
			&ind.ResidentPopulation, &ind.ResidentPopulationGR,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan economic row: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read economic indicators: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
