package handlers

import (
	"context"
	"net/http"
	"time"

	"edusaarthi/internal/i18n"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) Ready(w http.ResponseWriter, r *http.Request) {
	if a.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.ready(ctx); err != nil {
			a.log(r).Warn().Err(err).Msg("readiness check failed")
			a.error(w, r, http.StatusServiceUnavailable, i18n.KeyUnavailable)
			return
		}
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ready"})
}
