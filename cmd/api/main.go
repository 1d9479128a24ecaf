package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"edusaarthi/internal/access"
	"edusaarthi/internal/bootstrap"
	"edusaarthi/internal/entitlement"
	"edusaarthi/internal/http/handlers"
	httpapi "edusaarthi/internal/http/httpapi"
	"edusaarthi/internal/infra"
	"edusaarthi/internal/infra/geoip"
	"edusaarthi/internal/middleware"
	"edusaarthi/internal/progress"
	"edusaarthi/internal/quiz"
	"edusaarthi/internal/quota"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("api exited")
		os.Exit(1)
	}
}

// run owns every resource of the process so deferred cleanup always runs.
func run(cfg *infra.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer stores.Close()

	policy, err := quota.LoadPolicy(cfg.QuotaPolicyFile)
	if err != nil {
		return fmt.Errorf("load quota policy: %w", err)
	}

	catalog, err := quiz.LoadCatalog(cfg.QuizCatalogPath)
	if err != nil {
		return fmt.Errorf("load quiz catalog %s: %w", cfg.QuizCatalogPath, err)
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	ents := entitlement.NewService(stores.Entitlements, logger)
	gate := access.NewGate(access.Options{
		Entitlements: ents,
		Quotas:       quota.NewTracker(stores.Counters, policy.Location),
		Policy:       policy,
		Timeout:      cfg.GateTimeout,
		Logger:       logger,
	})

	app := handlers.NewApp(handlers.Deps{
		Gate:         gate,
		Entitlements: ents,
		Quizzes:      quiz.NewEngine(catalog),
		Progress:     progress.NewRecorder(stores.Progress, logger),
		Ready:        stores.Ping,
		Logger:       logger,
	})

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   "en",
		CountryLookup:   countryLookup,
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().
		Str("addr", server.Addr()).
		Str("store", cfg.StoreDriver).
		Int("quizzes", catalog.Len()).
		Str("quota_tz", policy.Location.String()).
		Msg("API listening")

	if err := server.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
