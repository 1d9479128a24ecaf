package handlers

import (
	"net/http"
	"time"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/i18n"
)

type upgradeRequest struct {
	Plan string `json:"plan" validate:"required,oneof=monthly annual"`
}

type entitlementResponse struct {
	IsPremium bool        `json:"is_premium"`
	Plan      domain.Plan `json:"premium_plan"`
	ExpiresAt *time.Time  `json:"premium_expires_at"`
	Message   string      `json:"message,omitempty"`
}

func toEntitlementResponse(e domain.Entitlement) entitlementResponse {
	return entitlementResponse{IsPremium: e.IsPremium, Plan: e.Plan, ExpiresAt: e.ExpiresAt}
}

func (a *App) PremiumStatus(w http.ResponseWriter, r *http.Request) {
	ent, err := a.entitlements.GetStatus(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toEntitlementResponse(ent))
}

func (a *App) PremiumUpgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidRequest)
		return
	}
	if !a.check(w, r, req) {
		return
	}
	plan, err := domain.ParsePlan(req.Plan)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ent, err := a.entitlements.Upgrade(r.Context(), a.currentUserID(r), plan)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	resp := toEntitlementResponse(ent)
	resp.Message = i18n.T(localeOf(r), i18n.KeyUpgraded, string(ent.Plan), formatDay(ent.ExpiresAt))
	a.json(w, http.StatusOK, resp)
}

func (a *App) PremiumCancel(w http.ResponseWriter, r *http.Request) {
	res, err := a.entitlements.Cancel(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	msg := i18n.T(localeOf(r), i18n.KeyNotPremium)
	if res.IsPremium {
		msg = i18n.T(localeOf(r), i18n.KeyCancelled, formatDay(res.EffectiveUntil))
	}
	a.json(w, http.StatusOK, map[string]any{
		"message":            msg,
		"is_premium":         res.IsPremium,
		"premium_expires_at": res.EffectiveUntil,
	})
}

type usageResponse struct {
	Limit     int       `json:"limit"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resets_at"`
}

func (a *App) UsageLimits(w http.ResponseWriter, r *http.Request) {
	report, err := a.gate.Usage(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if report.Premium {
		a.json(w, http.StatusOK, map[string]any{
			"is_premium": true,
			"message":    i18n.T(localeOf(r), i18n.KeyUnlimited),
		})
		return
	}
	limits := make(map[domain.ResourceType]usageResponse, len(report.Resources))
	for res, u := range report.Resources {
		limits[res] = usageResponse{Limit: u.Limit, Used: u.Used, Remaining: u.Remaining, ResetsAt: u.ResetsAt}
	}
	a.json(w, http.StatusOK, map[string]any{
		"is_premium": false,
		"limits":     limits,
	})
}

func formatDay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(domain.DayLayout)
}
