package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrUnsupportedPlan   = errors.New("unsupported plan")
	ErrPremiumRequired   = errors.New("premium subscription required")
	ErrUnknownResource   = errors.New("unknown resource type")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrNoSuitableContent = errors.New("no suitable content")
	ErrInvalidCatalog    = errors.New("invalid quiz catalog")

	// ErrStoreUnavailable marks infrastructure failures of the counter or
	// entitlement storage. Callers must deny the gated action when they see it.
	ErrStoreUnavailable = errors.New("store unavailable")
)
