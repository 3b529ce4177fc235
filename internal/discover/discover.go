// Package discover finds Go types that opt in to generation with a
// //gitinfo:generate marker in their doc comment.
package discover

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorewood/gitinfo/internal/emit"
)

// Marker is the directive that selects a type. It takes no options.
const Marker = "//gitinfo:generate"

// Dir scans the non-test Go files directly inside dir and returns one target
// per marked type, sorted by identifier. Generated gitinfo files are skipped.
func Dir(dir string) ([]emit.Target, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	seen := make(map[string]bool)
	var targets []emit.Target
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isCandidate(name) {
			continue
		}
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, target := range fileTargets(fset, file) {
			if seen[target.Identifier()] {
				continue
			}
			seen[target.Identifier()] = true
			targets = append(targets, target)
		}
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Identifier() < targets[j].Identifier()
	})
	return targets, nil
}

func isCandidate(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, ".g.go") &&
		!strings.HasPrefix(name, ".") &&
		!strings.HasPrefix(name, "_")
}

// fileTargets returns the marked type declarations in file. A marker on a
// grouped declaration applies to every type in the group.
func fileTargets(fset *token.FileSet, file *ast.File) []emit.Target {
	var targets []emit.Target
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		groupMarked := hasMarker(gen.Doc)
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if !groupMarked && !hasMarker(ts.Doc) {
				continue
			}
			pos := fset.Position(ts.Name.Pos())
			targets = append(targets, emit.Target{
				Name:       ts.Name.Name,
				Namespace:  file.Name.Name,
				TypeParams: typeParams(ts),
				Location:   emit.Location{File: pos.Filename, Line: pos.Line},
			})
		}
	}
	return targets
}

func hasMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == Marker {
			return true
		}
	}
	return false
}

func typeParams(ts *ast.TypeSpec) []string {
	if ts.TypeParams == nil {
		return nil
	}
	var names []string
	for _, field := range ts.TypeParams.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}
