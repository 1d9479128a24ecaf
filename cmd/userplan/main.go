package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"edusaarthi/internal/access"
	"edusaarthi/internal/bootstrap"
	"edusaarthi/internal/domain"
	"edusaarthi/internal/entitlement"
	"edusaarthi/internal/infra"
	"edusaarthi/internal/middleware"
	"edusaarthi/internal/quota"
)

func main() {
	_ = godotenv.Load()

	var (
		idFlag     string
		actionFlag string
		planFlag   string
		driverFlag string
		ttlFlag    time.Duration
	)

	flag.StringVar(&idFlag, "id", "", "user ID")
	flag.StringVar(&actionFlag, "action", "status", "status, upgrade, cancel, usage or token")
	flag.StringVar(&planFlag, "plan", "monthly", "plan for -action upgrade (monthly, annual)")
	flag.StringVar(&driverFlag, "driver", "", "store driver (defaults to STORE_DRIVER)")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime for -action token")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	action := strings.ToLower(strings.TrimSpace(actionFlag))

	if action == "token" {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			exitWithError(errors.New("JWT_SECRET is required"))
		}
		token, err := middleware.SignToken(secret, userID, ttlFlag)
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(token)
		return
	}

	out, err := runAction(userID, action, planFlag, driverFlag)
	if err != nil {
		exitWithError(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// runAction applies one entitlement action against the configured store.
func runAction(userID, action, planFlag, driverFlag string) (any, error) {
	cfg := &infra.Config{
		StoreDriver: strings.ToLower(firstNonEmpty(driverFlag, os.Getenv("STORE_DRIVER"), infra.DriverPostgres)),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:  firstNonEmpty(os.Getenv("SQLITE_PATH"), "edusaarthi.db"),
	}
	if cfg.StoreDriver == infra.DriverPostgres && cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	logger := infra.NewLogger("cli", "warn").With().Str("cmd", "userplan").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer stores.Close()

	policy, err := quota.LoadPolicy(os.Getenv("QUOTA_POLICY_FILE"))
	if err != nil {
		return nil, fmt.Errorf("failed to load quota policy: %w", err)
	}
	ents := entitlement.NewService(stores.Entitlements, logger)
	gate := access.NewGate(access.Options{
		Entitlements: ents,
		Quotas:       quota.NewTracker(stores.Counters, policy.Location),
		Policy:       policy,
		Logger:       logger,
	})

	var out any
	switch action {
	case "status":
		out, err = ents.GetStatus(ctx, userID)
	case "upgrade":
		var plan domain.Plan
		if plan, err = domain.ParsePlan(planFlag); err == nil {
			out, err = ents.Upgrade(ctx, userID, plan)
		}
	case "cancel":
		out, err = ents.Cancel(ctx, userID)
	case "usage":
		out, err = gate.Usage(ctx, userID)
	default:
		err = fmt.Errorf("unsupported action %q", action)
	}
	return out, err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
