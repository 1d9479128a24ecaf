package domain

import (
	"strings"
	"time"
)

// Plan enumerates billing plans.
type Plan string

const (
	PlanNone    Plan = "none"
	PlanMonthly Plan = "monthly"
	PlanAnnual  Plan = "annual"
)

// ParsePlan normalizes a plan name coming from a request or CLI flag.
// Only purchasable plans are accepted.
func ParsePlan(s string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanMonthly:
		return PlanMonthly, nil
	case PlanAnnual:
		return PlanAnnual, nil
	default:
		return "", ErrUnsupportedPlan
	}
}

// Term returns the expiry for a plan purchased at now.
func (p Plan) Term(now time.Time) (time.Time, error) {
	switch p {
	case PlanMonthly:
		return now.AddDate(0, 1, 0), nil
	case PlanAnnual:
		return now.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, ErrUnsupportedPlan
	}
}

// Entitlement is the premium state owned by a single user.
type Entitlement struct {
	UserID    string     `json:"-"`
	IsPremium bool       `json:"is_premium"`
	Plan      Plan       `json:"premium_plan"`
	ExpiresAt *time.Time `json:"premium_expires_at"`
	UpdatedAt time.Time  `json:"-"`
}

// FreeEntitlement is what users without a stored record get.
func FreeEntitlement(userID string) Entitlement {
	return Entitlement{UserID: userID, Plan: PlanNone}
}

// Expired reports whether a stored premium flag is no longer backed by its expiry.
// A premium record without expiry never lapses (admin grants).
func (e Entitlement) Expired(now time.Time) bool {
	return e.IsPremium && e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// Downgraded returns the record as it must look once expiry has passed.
// ExpiresAt is kept so the lapse remains visible.
func (e Entitlement) Downgraded(now time.Time) Entitlement {
	e.IsPremium = false
	e.Plan = PlanNone
	e.UpdatedAt = now
	return e
}

// CancelResult describes a cancel-at-period-end request.
type CancelResult struct {
	IsPremium      bool       `json:"is_premium"`
	EffectiveUntil *time.Time `json:"premium_expires_at"`
}
