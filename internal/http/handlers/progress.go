package handlers

import (
	"net/http"
	"strconv"

	"edusaarthi/internal/i18n"
)

func (a *App) ProgressHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidRequest)
			return
		}
		limit = n
	}
	events, err := a.progress.History(r.Context(), a.currentUserID(r), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"events": events})
}
