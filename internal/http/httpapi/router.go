package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"edusaarthi/internal/http/handlers"
	"edusaarthi/internal/middleware"
)

type Options struct {
	JWTSecret       string
	CORSOrigins     []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	Logger          zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	// Health
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/readyz", app.Ready)

	// Docs
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.APIDocs)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthJWT(opts.JWTSecret),
			middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		)

		r.Route("/v1/premium", func(r chi.Router) {
			r.Get("/status", app.PremiumStatus)
			r.Post("/upgrade", app.PremiumUpgrade)
			r.Post("/cancel", app.PremiumCancel)
			r.Get("/usage-limits", app.UsageLimits)
		})

		r.Post("/v1/access/{resourceType}", app.Access)

		r.Route("/v1/quizzes", func(r chi.Router) {
			r.Get("/", app.ListQuizzes)
			r.Get("/daily-free", app.DailyFree)
			r.Get("/adaptive/next-question", app.NextQuestion)
			r.Get("/{id}", app.GetQuiz)
			r.Post("/{id}/submit", app.SubmitQuiz)
		})

		r.Get("/v1/progress", app.ProgressHistory)
	})

	return r
}
