package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlKeyword    = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)
	markerPattern = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// Violation is one query constant that breaks the marker rules.
type Violation struct {
	File    string
	Line    int
	Name    string
	Message string
}

// linter collects violations across files so duplicate markers can be
// reported no matter which file declares them first.
type linter struct {
	seen       map[string]string // marker -> "file:line name"
	violations []Violation
}

func newLinter() *linter {
	return &linter{seen: make(map[string]string)}
}

// Lint walks every .go file under targets and reports query constants whose
// first line is not a "--sql <uuid>" marker, or whose marker is reused.
func Lint(targets ...string) ([]Violation, error) {
	l := newLinter()
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filepath.Ext(target) == ".go" {
				if err := l.file(target); err != nil {
					return nil, err
				}
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != target && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			return l.file(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return l.violations, nil
}

func (l *linter) file(path string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil || !sqlKeyword.MatchString(raw) {
				continue
			}
			name := "_"
			if i < len(vs.Names) {
				name = vs.Names[i].Name
			}
			pos := fset.Position(bl.Pos())
			l.check(path, pos.Line, name, firstLine(raw))
		}
		return true
	})
	return nil
}

func (l *linter) check(path string, line int, name, marker string) {
	if !markerPattern.MatchString(marker) {
		l.violations = append(l.violations, Violation{File: path, Line: line, Name: name, Message: "missing or invalid --sql <uuid> marker"})
		return
	}
	where := path + ":" + strconv.Itoa(line) + " " + name
	if prev, dup := l.seen[marker]; dup {
		l.violations = append(l.violations, Violation{File: path, Line: line, Name: name, Message: "marker already used by " + prev})
		return
	}
	l.seen[marker] = where
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) >= 2 && v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}
