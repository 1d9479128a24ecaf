package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"edusaarthi/internal/migrations"
)

func TestMigrateSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "migrate.db")
	for _, command := range []string{"up", "status", "down"} {
		if err := migrate("sqlite3", dsn, migrations.SQLite, command, zerolog.Nop()); err != nil {
			t.Fatalf("%s: %v", command, err)
		}
	}
	if err := migrate("sqlite3", dsn, migrations.SQLite, "sideways", zerolog.Nop()); !errors.Is(err, errUnknownCommand) {
		t.Fatalf("unknown command err = %v", err)
	}
}
