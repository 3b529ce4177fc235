// Package generator is the per-target entry point: it checks the
// repository, extracts metadata, renders the target's source file and
// decides whether a GITINFO01 warning is due.
package generator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gorewood/gitinfo/internal/emit"
	"github.com/gorewood/gitinfo/internal/logging"
	"github.com/gorewood/gitinfo/internal/metadata"
)

// UnusableRepositoryID identifies the warning raised when git cannot
// describe the working directory.
const UnusableRepositoryID = "GITINFO01"

const unusableMessage = "git is unavailable or the directory is not a git repository; " +
	"BranchName, Hash and Tags will be empty"

// Severity of a diagnostic.
type Severity string

// Severities.
const (
	SeverityWarning Severity = "warning"
)

// Diagnostic is a message attached to a target's declaration.
type Diagnostic struct {
	ID       string        `json:"id"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Location emit.Location `json:"location,omitzero"`
	Target   string        `json:"target"`
}

// String renders the compiler-style form "file:line: warning ID: message".
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%s %s: %s", d.Severity, d.ID, d.Message)
	if d.Location.IsZero() {
		return d.Target + ": " + msg
	}
	return d.Location.String() + ": " + msg
}

// Result is the outcome of generating one target.
type Result struct {
	Target     emit.Target
	Unit       emit.Unit
	Metadata   metadata.Metadata
	Diagnostic *Diagnostic
}

// Generate produces the source file for target. When the repository is
// unusable it skips extraction, attaches a single GITINFO01 warning and
// still renders the file with empty values.
//
// The only errors are a git executable that cannot be started and a target
// the emitter rejects.
func Generate(ctx context.Context, target emit.Target, repo metadata.Repository, lang emit.Language) (Result, error) {
	log := logging.WithComponent("generator").WithField("target", target.Identifier())

	usable, err := repo.Usable(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("checking repository for %s: %w", target.Identifier(), err)
	}

	res := Result{Target: target}
	if usable {
		res.Metadata, err = metadata.Extract(ctx, repo)
		if err != nil {
			return Result{}, fmt.Errorf("reading git metadata for %s: %w", target.Identifier(), err)
		}
	} else {
		res.Diagnostic = &Diagnostic{
			ID:       UnusableRepositoryID,
			Severity: SeverityWarning,
			Message:  unusableMessage,
			Location: target.Location,
			Target:   target.Identifier(),
		}
		log.Debug("repository unusable, emitting empty metadata")
	}

	res.Unit, err = emit.Emit(target, res.Metadata, lang)
	if err != nil {
		return Result{}, err
	}

	log.WithField("artifact", res.Unit.Name).
		WithField("branch", res.Metadata.Branch()).
		WithField("hash", res.Metadata.Hash()).
		Debug("generated")
	return res, nil
}

// GenerateAll runs Generate for every target concurrently. Targets share
// nothing, so results match a sequential run; they come back in input
// order. The first error cancels the remaining targets.
func GenerateAll(ctx context.Context, targets []emit.Target, repo metadata.Repository, lang emit.Language) ([]Result, error) {
	results := make([]Result, len(targets))
	group, ctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		group.Go(func() error {
			res, err := Generate(ctx, target, repo, lang)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Diagnostics collects the diagnostics raised across results.
func Diagnostics(results []Result) []Diagnostic {
	var diags []Diagnostic
	for _, res := range results {
		if res.Diagnostic != nil {
			diags = append(diags, *res.Diagnostic)
		}
	}
	return diags
}
