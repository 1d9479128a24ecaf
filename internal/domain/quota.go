package domain

import (
	"strings"
	"time"
)

// ResourceType names a category of gated action.
type ResourceType string

const (
	ResourceQuiz    ResourceType = "quiz"
	ResourceTutor   ResourceType = "tutor"
	ResourceContent ResourceType = "content"
)

// ParseResourceType normalizes a resource name from a route or query parameter.
// "ai_tutor" is the name older clients send for the tutor budget.
func ParseResourceType(s string) ResourceType {
	r := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	if r == "ai_tutor" {
		return ResourceTutor
	}
	return r
}

// DayLayout formats calendar days used in counter keys.
const DayLayout = "2006-01-02"

// CounterKey identifies exactly one daily counter.
type CounterKey struct {
	UserID   string
	Resource ResourceType
	Day      string // civil date in the reference timezone, DayLayout
}

// Usage is what the tracker reports about one counter.
type Usage struct {
	Allowed   bool
	Limit     int
	Used      int
	Remaining int
	ResetsAt  time.Time
}

// Reason explains an access decision.
type Reason string

const (
	ReasonUnlimited         Reason = "unlimited"
	ReasonOK                Reason = "ok"
	ReasonDailyLimitReached Reason = "daily_limit_reached"
	ReasonUnavailable       Reason = "unavailable"
)

// Decision is the outcome of one Authorize call. Remaining is nil for
// unlimited (premium) callers and ResetsAt is nil when no counter applies.
type Decision struct {
	Allowed   bool       `json:"allowed"`
	Remaining *int       `json:"remaining"`
	Reason    Reason     `json:"reason"`
	ResetsAt  *time.Time `json:"resets_at,omitempty"`
}

// Unlimited returns the decision handed to premium callers.
func Unlimited() Decision {
	return Decision{Allowed: true, Reason: ReasonUnlimited}
}

// Denied returns the fail-closed decision used when the gate cannot decide.
func Denied() Decision {
	zero := 0
	return Decision{Allowed: false, Remaining: &zero, Reason: ReasonUnavailable}
}

// Metered converts tracker usage into a decision.
func Metered(u Usage) Decision {
	remaining := u.Remaining
	resets := u.ResetsAt
	d := Decision{Allowed: u.Allowed, Remaining: &remaining, ResetsAt: &resets, Reason: ReasonOK}
	if !u.Allowed {
		d.Reason = ReasonDailyLimitReached
	}
	return d
}
