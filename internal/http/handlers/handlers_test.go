package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/middleware"
)

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		raw  string
		n    int
		want bool
	}{
		{`[0, true, "x", null]`, 4, true},
		{` []`, 0, true},
		{`{"0": 1}`, 0, false},
		{`"0,1"`, 0, false},
		{`null`, 0, false},
		{``, 0, false},
		{`[1, 2`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			answers, ok := parseAnswers(json.RawMessage(tt.raw))
			if ok != tt.want || len(answers) != tt.n {
				t.Fatalf("parseAnswers(%s) = %d answers, ok=%v", tt.raw, len(answers), ok)
			}
		})
	}
}

func TestFailMapsErrors(t *testing.T) {
	a := NewApp(Deps{Logger: zerolog.Nop()})
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{fmt.Errorf("get quiz: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{domain.ErrUnsupportedPlan, http.StatusBadRequest, "unsupported_plan"},
		{domain.ErrUnknownResource, http.StatusNotFound, "unknown_resource"},
		{domain.ErrInvalidSubmission, http.StatusBadRequest, "invalid_submission"},
		{domain.ErrPremiumRequired, http.StatusForbidden, "premium_required"},
		{domain.ErrNoSuitableContent, http.StatusNotFound, "no_suitable_content"},
		{fmt.Errorf("load entitlement: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			a.fail(rec, req, tt.err)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body["error"] != tt.code || body["message"] == "" {
				t.Fatalf("body = %v", body)
			}
		})
	}
}

func TestErrorMessageFollowsLocale(t *testing.T) {
	a := NewApp(Deps{Logger: zerolog.Nop()})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.LocaleKey, "hi"))
	a.fail(rec, req, domain.ErrPremiumRequired)

	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "इस सामग्री के लिए प्रीमियम सदस्यता आवश्यक है।" {
		t.Fatalf("message = %q", body["message"])
	}
}

func TestValidatorUsesJSONNames(t *testing.T) {
	a := NewApp(Deps{Logger: zerolog.Nop()})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if a.check(rec, req, nextQuestionQuery{Subject: "  ", ClassLevel: 0}) {
		t.Fatal("blank query passed validation")
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Fields["subject"] == "" || body.Fields["class_level"] == "" {
		t.Fatalf("fields = %v", body.Fields)
	}
}
