package main

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"edusaarthi/internal/infra"
)

func TestRunRefusesMemoryStore(t *testing.T) {
	if err := run(&infra.Config{StoreDriver: infra.DriverMemory}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for memory store")
	}
}

func TestRunReturnsPolicyError(t *testing.T) {
	cfg := &infra.Config{
		StoreDriver:     infra.DriverSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "worker.db"),
		QuotaPolicyFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}
	if err := run(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing policy file")
	}
}
