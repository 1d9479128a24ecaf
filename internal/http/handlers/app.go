package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"edusaarthi/internal/access"
	"edusaarthi/internal/entitlement"
	"edusaarthi/internal/i18n"
	"edusaarthi/internal/middleware"
	"edusaarthi/internal/progress"
	"edusaarthi/internal/quiz"
)

const maxBodyBytes = 1 << 20

// Deps are the services the HTTP handlers call.
type Deps struct {
	Gate         *access.Gate
	Entitlements *entitlement.Service
	Quizzes      *quiz.Engine
	Progress     *progress.Recorder
	// Ready reports whether the backing store answers; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger zerolog.Logger
}

type App struct {
	gate         *access.Gate
	entitlements *entitlement.Service
	quizzes      *quiz.Engine
	progress     *progress.Recorder
	ready        func(ctx context.Context) error
	logger       zerolog.Logger
	validate     *validator.Validate
	trans        ut.Translator
}

func NewApp(d Deps) *App {
	validate, trans := newValidator()
	return &App{
		gate:         d.Gate,
		entitlements: d.Entitlements,
		quizzes:      d.Quizzes,
		progress:     d.Progress,
		ready:        d.Ready,
		logger:       d.Logger,
		validate:     validate,
		trans:        trans,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes {"error": key, "message": localized text}.
func (a *App) error(w http.ResponseWriter, r *http.Request, code int, key string, args ...any) {
	a.json(w, code, map[string]any{
		"error":   key,
		"message": i18n.T(localeOf(r), key, args...),
	})
}

func localeOf(r *http.Request) string {
	return middleware.LocaleFromContext(r.Context())
}

func (a *App) currentUserID(r *http.Request) string {
	return strings.TrimSpace(middleware.UserIDFromContext(r.Context()))
}

// log returns the request-scoped logger set by the logging middleware,
// falling back to the app logger.
func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.logger
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
