// Package memstore keeps entitlements, counters and progress in process memory.
// It is meant for local development and tests; counters are only atomic within
// one process.
package memstore

import (
	"context"
	"sync"
	"time"

	"edusaarthi/internal/domain"
)

// DB groups the in-memory tables.
type DB struct {
	mu           sync.RWMutex
	entitlements map[string]domain.Entitlement
	counters     map[domain.CounterKey]int
	progress     []domain.ProgressEvent
}

// New creates an empty store.
func New() *DB {
	return &DB{
		entitlements: make(map[string]domain.Entitlement),
		counters:     make(map[domain.CounterKey]int),
	}
}

var (
	_ domain.EntitlementRepository = (*DB)(nil)
	_ domain.CounterRepository     = (*DB)(nil)
	_ domain.ProgressRepository    = (*DB)(nil)
	_ domain.CounterPurger         = (*DB)(nil)
)

func (db *DB) Get(ctx context.Context, userID string) (domain.Entitlement, error) {
	if err := ctx.Err(); err != nil {
		return domain.Entitlement{}, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	ent, ok := db.entitlements[userID]
	if !ok {
		return domain.Entitlement{}, domain.ErrNotFound
	}
	return copyEntitlement(ent), nil
}

func (db *DB) Save(ctx context.Context, e domain.Entitlement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.entitlements[e.UserID] = copyEntitlement(e)
	return nil
}

func (db *DB) DowngradeExpired(ctx context.Context, userID string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	ent, ok := db.entitlements[userID]
	if !ok || !ent.Expired(now) {
		return nil
	}
	db.entitlements[userID] = ent.Downgraded(now)
	return nil
}

func (db *DB) Increment(ctx context.Context, key domain.CounterKey, capacity int) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	count := db.counters[key]
	if count >= capacity {
		return count, false, nil
	}
	count++
	db.counters[key] = count
	return count, true, nil
}

func (db *DB) Count(ctx context.Context, key domain.CounterKey) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.counters[key], nil
}

// PurgeBefore drops counters of days before day.
func (db *DB) PurgeBefore(ctx context.Context, day string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	var n int64
	for key := range db.counters {
		if key.Day < day {
			delete(db.counters, key)
			n++
		}
	}
	return n, nil
}

// CounterExists reports whether a counter row was ever created for key.
func (db *DB) CounterExists(key domain.CounterKey) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.counters[key]
	return ok
}

// Counters returns the number of live counter rows.
func (db *DB) Counters() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.counters)
}

func (db *DB) Insert(ctx context.Context, ev domain.ProgressEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.progress = append(db.progress, ev)
	return nil
}

func (db *DB) List(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]domain.ProgressEvent, 0)
	for i := len(db.progress) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if db.progress[i].UserID == userID {
			out = append(out, db.progress[i])
		}
	}
	return out, nil
}

func copyEntitlement(e domain.Entitlement) domain.Entitlement {
	if e.ExpiresAt != nil {
		t := *e.ExpiresAt
		e.ExpiresAt = &t
	}
	return e
}
