package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestQueryPackageIsClean(t *testing.T) {
	violations, err := Lint("../../sqlinline")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range violations {
		t.Errorf("%s:%d %s (%s)", v.File, v.Line, v.Message, v.Name)
	}
}

func TestLintFindsViolations(t *testing.T) {
	dir := t.TempDir()
	src := "package q\n\n" +
		"const QOk = `--sql 11111111-2222-4333-8444-555555555555\nselect 1`\n" +
		"const QDup = `--sql 11111111-2222-4333-8444-555555555555\nselect 2`\n" +
		"const QBare = `select count(*) from usage_counters`\n" +
		"const NotSQL = `hello world`\n"
	if err := os.WriteFile(filepath.Join(dir, "q.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	violations, err := Lint(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 2 {
		t.Fatalf("violations = %+v", violations)
	}
	if violations[0].Name != "QDup" || !strings.Contains(violations[0].Message, "QOk") {
		t.Fatalf("duplicate = %+v", violations[0])
	}
	if violations[1].Name != "QBare" || violations[1].Line != 7 {
		t.Fatalf("bare = %+v", violations[1])
	}
}
