package quota

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edusaarthi/internal/domain"
)

// Tracker meters daily consumption per (user, resource type, calendar day).
// Each day gets a fresh counter key; counters of past days are never touched
// again.
type Tracker struct {
	repo domain.CounterRepository
	loc  *time.Location
	now  func() time.Time
}

// NewTracker builds a Tracker whose days start at midnight in loc.
func NewTracker(repo domain.CounterRepository, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{repo: repo, loc: loc, now: time.Now}
}

// Location is the reference timezone of the tracker.
func (t *Tracker) Location() *time.Location { return t.loc }

// Day returns the counter day for instant now and the next midnight after it,
// both in the reference timezone.
func (t *Tracker) Day(now time.Time) (string, time.Time) {
	local := now.In(t.loc)
	y, m, d := local.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, t.loc)
	return local.Format(domain.DayLayout), next
}

func (t *Tracker) key(userID string, res domain.ResourceType, now time.Time) (domain.CounterKey, time.Time, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.CounterKey{}, time.Time{}, domain.ErrUnauthorized
	}
	day, resets := t.Day(now)
	return domain.CounterKey{UserID: userID, Resource: res, Day: day}, resets, nil
}

// CheckAndConsume takes one unit of today's budget if any is left. The
// read-compare-increment happens as one conditional write in the store, so
// concurrent callers can never push the counter past capacity.
func (t *Tracker) CheckAndConsume(ctx context.Context, userID string, res domain.ResourceType, capacity int) (domain.Usage, error) {
	key, resets, err := t.key(userID, res, t.now())
	if err != nil {
		return domain.Usage{}, err
	}
	usage := domain.Usage{Limit: capacity, ResetsAt: resets}
	if capacity <= 0 {
		return usage, nil
	}

	count, ok, err := t.repo.Increment(ctx, key, capacity)
	if err != nil {
		return domain.Usage{}, fmt.Errorf("consume %s quota: %w", res, err)
	}
	if !ok {
		usage.Used = capacity
		return usage, nil
	}
	usage.Allowed = true
	usage.Used = count
	usage.Remaining = capacity - count
	return usage, nil
}

// PeekRemaining reports today's usage without creating or changing a counter.
// Allowed tells whether a CheckAndConsume issued now would likely pass.
func (t *Tracker) PeekRemaining(ctx context.Context, userID string, res domain.ResourceType, capacity int) (domain.Usage, error) {
	key, resets, err := t.key(userID, res, t.now())
	if err != nil {
		return domain.Usage{}, err
	}
	used, err := t.repo.Count(ctx, key)
	if err != nil {
		return domain.Usage{}, fmt.Errorf("read %s quota: %w", res, err)
	}
	capacity = max(capacity, 0)
	if used > capacity {
		used = capacity
	}
	remaining := max(capacity-used, 0)
	return domain.Usage{
		Allowed:   remaining > 0,
		Limit:     capacity,
		Used:      used,
		Remaining: remaining,
		ResetsAt:  resets,
	}, nil
}
