package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"edusaarthi/internal/bootstrap"
	"edusaarthi/internal/infra"
	"edusaarthi/internal/quota"
)

// The worker purges usage counters that fell out of the retention window.
// Past-day counters are never incremented, so this only reclaims storage.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel).With().Str("cmd", "worker").Logger()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("worker: exited")
		os.Exit(1)
	}
	logger.Info().Msg("worker: stopped")
}

func run(cfg *infra.Config, logger zerolog.Logger) error {
	if cfg.StoreDriver == infra.DriverMemory {
		return errors.New("memory store has nothing to purge across processes")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("store connection: %w", err)
	}
	defer stores.Close()

	policy, err := quota.LoadPolicy(cfg.QuotaPolicyFile)
	if err != nil {
		return fmt.Errorf("load quota policy: %w", err)
	}

	janitor := quota.NewJanitor(stores.Purger, policy.Location, cfg.CounterRetentionDays, logger)
	logger.Info().
		Int("retention_days", cfg.CounterRetentionDays).
		Dur("interval", cfg.JanitorInterval).
		Msg("worker: started")

	if err := janitor.Run(ctx, cfg.JanitorInterval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
