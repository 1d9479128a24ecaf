package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"edusaarthi/internal/infra"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	cfg := &infra.Config{
		StoreDriver:     infra.DriverMemory,
		QuizCatalogPath: filepath.Join(t.TempDir(), "missing.json"),
	}
	err := run(cfg, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "quiz catalog") {
		t.Fatalf("err = %v", err)
	}

	cfg = &infra.Config{StoreDriver: "mongo"}
	if err := run(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}
