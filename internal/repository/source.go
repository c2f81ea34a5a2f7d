package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hdbpricing/backend/internal/domain"
	"github.com/hdbpricing/backend/internal/repository/memory"
	"github.com/hdbpricing/backend/internal/repository/postgres"
	"github.com/hdbpricing/backend/internal/repository/tabular"
)

// Source kinds selected by the location string.
const (
	KindURL      = "url"
	KindPostgres = "postgres"
	KindXLSX     = "xlsx"
	KindFile     = "file"
	KindMemory   = "memory"
)

// Kind classifies an economic data location
func Kind(location string) string {
	lower := strings.ToLower(location)
	switch {
	case lower == KindMemory:
		return KindMemory
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindURL
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case filepath.Ext(lower) == ".xlsx":
		return KindXLSX
	default:
		return KindFile
	}
}

// OpenEconomicRepository returns the repository serving location. The
// returned close function releases any connection pool and is never nil.
func OpenEconomicRepository(ctx context.Context, location, sheet string, timeout time.Duration) (domain.EconomicRepository, func(), error) {
	noop := func() {}

	switch Kind(location) {
	case KindURL:
		return tabular.NewCSVRepository(location, timeout), noop, nil
	case KindPostgres:
		pool, err := pgxpool.New(ctx, location)
		if err != nil {
			return nil, noop, fmt.Errorf("repository: failed to open database: %w", err)
		}
		repo := postgres.NewPostgresRepository(pool)
		if err := repo.Health(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return repo, pool.Close, nil
	case KindXLSX:
		return tabular.NewXLSXRepository(location, sheet), noop, nil
	case KindMemory:
		return memory.NewSampleRepository(), noop, nil
	default:
		return tabular.NewFileRepository(location), noop, nil
	}
}
