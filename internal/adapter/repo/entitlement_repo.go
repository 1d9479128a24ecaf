package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/infra"
	"edusaarthi/internal/sqlinline"
)

// EntitlementRepositoryPG implements domain.EntitlementRepository backed by PostgreSQL.
type EntitlementRepositoryPG struct {
	db infra.SQLExecutor
}

// NewEntitlementRepository creates a new EntitlementRepositoryPG.
func NewEntitlementRepository(db infra.SQLExecutor) *EntitlementRepositoryPG {
	return &EntitlementRepositoryPG{db: db}
}

var _ domain.EntitlementRepository = (*EntitlementRepositoryPG)(nil)

// Get loads the entitlement row of userID.
func (r *EntitlementRepositoryPG) Get(ctx context.Context, userID string) (domain.Entitlement, error) {
	var (
		e       domain.Entitlement
		plan    string
		expires *time.Time
	)
	err := r.db.QueryRow(ctx, sqlinline.QSelectEntitlement, userID).
		Scan(&e.UserID, &e.IsPremium, &plan, &expires, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Entitlement{}, domain.ErrNotFound
		}
		return domain.Entitlement{}, unavailable("select entitlement", err)
	}
	e.Plan = domain.Plan(plan)
	if expires != nil {
		t := expires.UTC()
		e.ExpiresAt = &t
	}
	return e, nil
}

// Save upserts the whole entitlement row.
func (r *EntitlementRepositoryPG) Save(ctx context.Context, e domain.Entitlement) error {
	updated := e.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	plan := e.Plan
	if plan == "" {
		plan = domain.PlanNone
	}
	if _, err := r.db.Exec(ctx, sqlinline.QUpsertEntitlement, e.UserID, e.IsPremium, string(plan), e.ExpiresAt, updated); err != nil {
		return unavailable("upsert entitlement", err)
	}
	return nil
}

// DowngradeExpired clears the premium flag of an expired row.
func (r *EntitlementRepositoryPG) DowngradeExpired(ctx context.Context, userID string, now time.Time) error {
	if _, err := r.db.Exec(ctx, sqlinline.QDowngradeExpiredEntitlement, userID, now); err != nil {
		return unavailable("downgrade entitlement", err)
	}
	return nil
}

// unavailable marks infrastructure failures so callers fail closed. The
// original error stays in the chain for context cancellation checks.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}
