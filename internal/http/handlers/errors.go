package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/i18n"
)

// fail maps a service error to its HTTP status and error code.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, r, http.StatusUnauthorized, i18n.KeyUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, i18n.KeyNotFound)
	case errors.Is(err, domain.ErrUnsupportedPlan):
		a.error(w, r, http.StatusBadRequest, i18n.KeyUnsupportedPlan)
	case errors.Is(err, domain.ErrUnknownResource):
		a.error(w, r, http.StatusNotFound, i18n.KeyUnknownResource, chi.URLParam(r, "resourceType"))
	case errors.Is(err, domain.ErrInvalidSubmission):
		a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidSubmission)
	case errors.Is(err, domain.ErrPremiumRequired):
		a.error(w, r, http.StatusForbidden, i18n.KeyPremiumRequired)
	case errors.Is(err, domain.ErrNoSuitableContent):
		a.error(w, r, http.StatusNotFound, i18n.KeyNoSuitableContent)
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		a.log(r).Warn().Err(err).Msg("store unavailable")
		a.error(w, r, http.StatusServiceUnavailable, i18n.KeyUnavailable)
	default:
		a.log(r).Error().Err(err).Msg("unhandled error")
		a.error(w, r, http.StatusInternalServerError, i18n.KeyInternal)
	}
}

// denied writes a 403 carrying the full gate decision.
func (a *App) denied(w http.ResponseWriter, r *http.Request, res domain.ResourceType, d domain.Decision) {
	body := map[string]any{
		"error":     i18n.KeyDailyLimitReached,
		"message":   i18n.T(localeOf(r), i18n.KeyDailyLimitReached, string(res)),
		"allowed":   d.Allowed,
		"remaining": d.Remaining,
		"reason":    d.Reason,
	}
	if d.ResetsAt != nil {
		body["resets_at"] = d.ResetsAt
	}
	a.json(w, http.StatusForbidden, body)
}
