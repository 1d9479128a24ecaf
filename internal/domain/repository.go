package domain

import (
	"context"
	"time"
)

// EntitlementRepository persists entitlements.
type EntitlementRepository interface {
	// Get returns ErrNotFound when the user never had a record.
	Get(ctx context.Context, userID string) (Entitlement, error)
	Save(ctx context.Context, e Entitlement) error
	// DowngradeExpired clears the premium flag when expires_at <= now. It is a
	// conditional write and a no-op for records already downgraded.
	DowngradeExpired(ctx context.Context, userID string, now time.Time) error
}

// CounterRepository stores daily usage counters.
type CounterRepository interface {
	// Increment adds one to the counter for key only while it is below capacity,
	// creating it on first use. The check and the write are a single atomic
	// operation in the store. ok is false when the counter was already full; count
	// is the value after the call in that case only when the store can report it.
	Increment(ctx context.Context, key CounterKey, capacity int) (count int, ok bool, err error)
	// Count reads a counter without creating it. Missing counters read as zero.
	Count(ctx context.Context, key CounterKey) (int, error)
}

// ProgressRepository persists submission history handed over by the quiz flow.
type ProgressRepository interface {
	Insert(ctx context.Context, ev ProgressEvent) error
	// List returns the newest events of userID first, at most limit of them.
	List(ctx context.Context, userID string, limit int) ([]ProgressEvent, error)
}

// CounterPurger deletes counters of days before a cutoff. Past-day counters
// are never incremented again, so purging only reclaims space.
type CounterPurger interface {
	PurgeBefore(ctx context.Context, day string) (int64, error)
}
