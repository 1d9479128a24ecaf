package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"edusaarthi/internal/infra"
	"edusaarthi/internal/migrations"
)

func main() {
	_ = godotenv.Load()

	var dialectFlag string
	flag.StringVar(&dialectFlag, "dialect", "postgres", "postgres or sqlite")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [-dialect postgres|sqlite] up|down|status")
		flag.PrintDefaults()
	}
	flag.Parse()

	command := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	if command == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := infra.NewLogger(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL")).With().Str("cmd", "migrate").Logger()

	dialect := migrations.Dialect(strings.ToLower(dialectFlag))
	driver, dsn := "postgres", strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dialect == migrations.SQLite {
		driver, dsn = "sqlite3", os.Getenv("SQLITE_PATH")
		if dsn == "" {
			dsn = "edusaarthi.db"
		}
	}
	if dsn == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	if err := migrate(driver, dsn, dialect, command, logger); err != nil {
		if errors.Is(err, errUnknownCommand) {
			flag.Usage()
			os.Exit(2)
		}
		exitWithError(err)
	}
}

var errUnknownCommand = errors.New("unknown command")

func migrate(driver, dsn string, dialect migrations.Dialect, command string, logger zerolog.Logger) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := migrations.NewProvider(db, dialect)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		for _, r := range results {
			logger.Info().Int64("version", r.Source.Version).Str("file", r.Source.Path).Dur("took", r.Duration).Msg("applied")
		}
		if len(results) == 0 {
			logger.Info().Msg("no pending migrations")
		}
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info().Int64("version", r.Source.Version).Str("file", r.Source.Path).Msg("rolled back")
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Printf("%-6d %-40s %s\n", s.Source.Version, s.Source.Path, applied)
		}
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, command)
	}
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
