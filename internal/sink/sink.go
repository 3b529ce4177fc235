// Package sink writes rendered units to disk and checks them for drift.
package sink

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/gorewood/gitinfo/internal/emit"
)

// Dir is an output directory for generated units.
type Dir string

// Path returns where unit lives inside the directory.
func (d Dir) Path(unit emit.Unit) string {
	return filepath.Join(string(d), unit.Name)
}

// Write stores unit atomically: a temp file in the same directory is
// renamed over the destination. Unchanged files are left untouched so
// their modification time does not trigger rebuilds.
func (d Dir) Write(unit emit.Unit) (changed bool, err error) {
	dest := d.Path(unit)
	if current, err := os.ReadFile(dest); err == nil && bytes.Equal(current, unit.Source) {
		return false, nil
	}

	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return false, fmt.Errorf("creating output directory %s: %w", d, err)
	}
	tmp, err := os.CreateTemp(string(d), "."+unit.Name+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("creating temp file for %s: %w", unit.Name, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(unit.Source); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return false, fmt.Errorf("replacing %s: %w", dest, err)
	}
	return true, nil
}

// Diff compares unit with the file on disk and returns a unified diff, or
// "" when they match. A missing file diffs against empty content.
func (d Dir) Diff(unit emit.Unit) (string, error) {
	dest := d.Path(unit)
	current, err := os.ReadFile(dest)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", dest, err)
	}
	if bytes.Equal(current, unit.Source) {
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(unit.Source)),
		FromFile: "a/" + unit.Name,
		ToFile:   "b/" + unit.Name,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", dest, err)
	}
	return diff, nil
}
