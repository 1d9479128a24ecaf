package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"edusaarthi/internal/domain"
)

// Access is the single gate entry point for collaborator services. Every
// allowed call consumes one unit of the caller's daily budget.
func (a *App) Access(w http.ResponseWriter, r *http.Request) {
	res := domain.ParseResourceType(chi.URLParam(r, "resourceType"))
	d, err := a.gate.Authorize(r.Context(), a.currentUserID(r), res)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	setRemaining(w, d)
	if !d.Allowed {
		a.denied(w, r, res, d)
		return
	}
	a.json(w, http.StatusOK, d)
}

func setRemaining(w http.ResponseWriter, d domain.Decision) {
	if d.Remaining != nil {
		w.Header().Set("X-Quota-Remaining", strconv.Itoa(*d.Remaining))
	}
}
