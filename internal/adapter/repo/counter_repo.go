package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/infra"
	"edusaarthi/internal/sqlinline"
)

// CounterRepositoryPG implements domain.CounterRepository backed by PostgreSQL.
// The ceiling check lives in the upsert itself, so the database serializes
// concurrent increments of one key across every API process.
type CounterRepositoryPG struct {
	db infra.SQLExecutor
}

// NewCounterRepository creates a new CounterRepositoryPG.
func NewCounterRepository(db infra.SQLExecutor) *CounterRepositoryPG {
	return &CounterRepositoryPG{db: db}
}

var (
	_ domain.CounterRepository = (*CounterRepositoryPG)(nil)
	_ domain.CounterPurger     = (*CounterRepositoryPG)(nil)
)

func (r *CounterRepositoryPG) Increment(ctx context.Context, key domain.CounterKey, capacity int) (int, bool, error) {
	if capacity <= 0 {
		return 0, false, nil
	}
	var count int
	err := r.db.QueryRow(ctx, sqlinline.QIncrementUsageCounter, key.UserID, string(key.Resource), key.Day, capacity).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return capacity, false, nil
	}
	if err != nil {
		return 0, false, unavailable("increment usage counter", err)
	}
	return count, true, nil
}

func (r *CounterRepositoryPG) Count(ctx context.Context, key domain.CounterKey) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, sqlinline.QSelectUsageCounter, key.UserID, string(key.Resource), key.Day).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("select usage counter", err)
	}
	return count, nil
}

func (r *CounterRepositoryPG) PurgeBefore(ctx context.Context, day string) (int64, error) {
	tag, err := r.db.Exec(ctx, sqlinline.QPurgeUsageCountersBefore, day)
	if err != nil {
		return 0, unavailable("purge usage counters", err)
	}
	return tag.RowsAffected(), nil
}
