// Package bootstrap wires the configured store driver into the repositories
// used by the API and the admin tools.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"edusaarthi/internal/adapter/memstore"
	"edusaarthi/internal/adapter/repo"
	"edusaarthi/internal/adapter/sqlitestore"
	"edusaarthi/internal/domain"
	"edusaarthi/internal/infra"
)

// Stores bundles the repositories of one store driver.
type Stores struct {
	Entitlements domain.EntitlementRepository
	Counters     domain.CounterRepository
	Progress     domain.ProgressRepository
	Purger       domain.CounterPurger
	// Ping reports whether the store answers.
	Ping  func(ctx context.Context) error
	close func()
}

// Close releases the store's connections.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores connects the store selected by cfg.StoreDriver.
func OpenStores(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case infra.DriverPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		runner := infra.NewSQLRunner(pool, logger)
		counters := repo.NewCounterRepository(runner)
		return &Stores{
			Entitlements: repo.NewEntitlementRepository(runner),
			Counters:     counters,
			Purger:       counters,
			Progress:     repo.NewProgressRepository(runner),
			Ping:         pool.Ping,
			close:        pool.Close,
		}, nil

	case infra.DriverSQLite:
		store, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Entitlements: store,
			Counters:     store,
			Purger:       store,
			Progress:     store,
			Ping:         store.Ping,
			close: func() {
				if err := store.Close(); err != nil {
					logger.Warn().Err(err).Msg("close sqlite store")
				}
			},
		}, nil

	case infra.DriverMemory:
		logger.Warn().Msg("memory store selected: entitlements and counters are lost on restart")
		db := memstore.New()
		return &Stores{
			Entitlements: db,
			Counters:     db,
			Purger:       db,
			Progress:     db,
			Ping:         func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
