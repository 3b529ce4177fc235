package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/gitinfo/internal/config"
	"github.com/gorewood/gitinfo/internal/discover"
	"github.com/gorewood/gitinfo/internal/emit"
	"github.com/gorewood/gitinfo/internal/generator"
	"github.com/gorewood/gitinfo/internal/git"
	"github.com/gorewood/gitinfo/internal/metadata"
	"github.com/gorewood/gitinfo/internal/output"
	"github.com/gorewood/gitinfo/internal/sink"
)

// generateFlags holds the generate command's flag values.
type generateFlags struct {
	typeName   string
	namespace  string
	typeParams []string
	language   string
	output     string
	git        string
	repo       string
	stdout     bool
	check      bool
}

// generateResult is the JSON shape of a generate run.
type generateResult struct {
	Written     []string               `json:"written"`
	Unchanged   []string               `json:"unchanged"`
	Stale       []string               `json:"stale,omitempty"`
	Units       []unitJSON             `json:"units,omitempty"`
	Diagnostics []generator.Diagnostic `json:"diagnostics"`
}

type unitJSON struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// newGenerateCmd creates the generate command.
func newGenerateCmd() *cobra.Command {
	return newGenerateCmdInternal(nil)
}

// newGenerateCmdInternal creates the generate command with optional
// repository injection. If repo is nil, git is run in the configured
// repository directory.
func newGenerateCmdInternal(repo metadata.Repository) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Write BranchName, Hash and Tags source files for target types",
		Long: `Generate one source file per target type carrying the current git
branch, commit hash and tags.

Targets come from, in order:
  1. --type (namespace from --namespace, else $GOPACKAGE under go generate)
  2. the targets list of the config file
  3. types in [dir] whose doc comment contains //gitinfo:generate

Examples:
  gitinfo generate                          # Scan the current package
  gitinfo generate ./internal/version       # Scan another package
  gitinfo generate --type Build             # From //go:generate
  gitinfo generate --language csharp --type AppInfo --namespace MyApp
  gitinfo generate --check                  # Exit 3 if files are out of date`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, repo, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.typeName, "type", "t", "", "Generate for this type name only")
	cmd.Flags().StringVarP(&flags.namespace, "namespace", "n", "", "Namespace or package of --type (default $GOPACKAGE)")
	cmd.Flags().StringSliceVar(&flags.typeParams, "type-param", nil, "Type parameter names of --type, in order")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Output language: go, csharp (default from config, else go)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (default [dir])")
	cmd.Flags().StringVar(&flags.git, "git", "", "Git executable (default from config, else git)")
	cmd.Flags().StringVar(&flags.repo, "repo", "", "Repository directory to query (default current directory)")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "Print generated source instead of writing files")
	cmd.Flags().BoolVar(&flags.check, "check", false, "Verify files are up to date without writing")
	cmd.MarkFlagsMutuallyExclusive("stdout", "check")

	return cmd
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, repo metadata.Repository, flags generateFlags, args []string) error {
	printer := newPrinter(cmd)
	cfg := applyGenerateFlags(configFrom(cmd), flags)

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	lang, err := cfg.OutputLanguage()
	if err != nil {
		userErr := output.NewUserErrorWithCause(err.Error(), err)
		printer.Error(userErr)
		return userErr
	}

	targets, err := resolveTargets(cfg, flags, dir)
	if err != nil {
		printer.Error(err)
		return err
	}
	if len(targets) == 0 {
		printer.Warn("no targets: pass --type, list targets in %s, or mark a type in %s with %s",
			config.FileName, dir, discover.Marker)
		return nil
	}

	if repo == nil {
		repo = git.NewInspector(git.ExecRunner{Dir: cfg.Dir}, cfg.Git)
	}

	results, err := generator.GenerateAll(cmd.Context(), targets, repo, lang)
	if err != nil {
		sysErr := asExitError(err)
		printer.Error(sysErr)
		return sysErr
	}

	diagnostics := generator.Diagnostics(results)
	for _, diag := range diagnostics {
		printer.Diagnostic(diag.String())
	}

	outDir := sink.Dir(cfg.Output)
	if flags.output == "" && cfg.Source == "" {
		outDir = sink.Dir(dir)
	}

	switch {
	case flags.stdout:
		return printUnits(printer, results, diagnostics)
	case flags.check:
		return checkUnits(printer, outDir, results, diagnostics)
	default:
		return writeUnits(printer, outDir, results, diagnostics)
	}
}

// applyGenerateFlags layers explicitly set flags over the config.
func applyGenerateFlags(base *config.Config, flags generateFlags) *config.Config {
	cfg := *base
	if flags.language != "" {
		cfg.Language = flags.language
	}
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if flags.git != "" {
		cfg.Git = flags.git
	}
	if flags.repo != "" {
		cfg.Dir = flags.repo
	}
	return &cfg
}

// resolveTargets picks targets from --type, then config, then markers in dir.
func resolveTargets(cfg *config.Config, flags generateFlags, dir string) ([]emit.Target, error) {
	if flags.typeName != "" {
		target := flagTarget(flags)
		if err := target.Validate(); err != nil {
			return nil, output.NewUserErrorWithCause("invalid --type: "+err.Error(), err)
		}
		return []emit.Target{target}, nil
	}

	if len(cfg.Targets) > 0 {
		if err := cfg.Validate(); err != nil {
			return nil, output.NewUserErrorWithCause("invalid config "+cfg.Source+": "+err.Error(), err)
		}
		return cfg.Targets, nil
	}

	targets, err := discover.Dir(dir)
	if err != nil {
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	return targets, nil
}

// flagTarget builds the --type target. Under go generate the package and
// the directive's position fill in what the flags leave out.
func flagTarget(flags generateFlags) emit.Target {
	target := emit.Target{
		Name:       flags.typeName,
		Namespace:  flags.namespace,
		TypeParams: flags.typeParams,
	}
	if target.Namespace == "" {
		target.Namespace = os.Getenv("GOPACKAGE")
	}
	if file := os.Getenv("GOFILE"); file != "" {
		line, _ := strconv.Atoi(os.Getenv("GOLINE"))
		target.Location = emit.Location{File: file, Line: line}
	}
	return target
}

func printUnits(printer *output.Printer, results []generator.Result, diags []generator.Diagnostic) error {
	if printer.IsJSON() {
		res := newGenerateResult(diags)
		for _, r := range results {
			res.Units = append(res.Units, unitJSON{Name: r.Unit.Name, Source: string(r.Unit.Source)})
		}
		return printer.WriteJSON(res)
	}
	for _, r := range results {
		printer.Print("%s", r.Unit.Source)
	}
	return nil
}

func checkUnits(printer *output.Printer, dir sink.Dir, results []generator.Result, diags []generator.Diagnostic) error {
	res := newGenerateResult(diags)
	for _, r := range results {
		diff, err := dir.Diff(r.Unit)
		if err != nil {
			sysErr := output.NewSystemErrorWithCause(err.Error(), err)
			printer.Error(sysErr)
			return sysErr
		}
		if diff == "" {
			res.Unchanged = append(res.Unchanged, dir.Path(r.Unit))
			continue
		}
		res.Stale = append(res.Stale, dir.Path(r.Unit))
		if !printer.IsJSON() {
			printer.Print("%s", diff)
		}
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(res); err != nil {
			return err
		}
	}
	if len(res.Stale) > 0 {
		staleErr := output.NewStaleError(strconv.Itoa(len(res.Stale)) + " generated file(s) out of date; run gitinfo generate")
		if !printer.IsJSON() {
			printer.Error(staleErr)
		}
		return staleErr
	}
	if printer.IsJSON() {
		return nil
	}
	return printer.Success(map[string]any{"message": "Generated files are up to date"})
}

func writeUnits(printer *output.Printer, dir sink.Dir, results []generator.Result, diags []generator.Diagnostic) error {
	res := newGenerateResult(diags)
	for _, r := range results {
		changed, err := dir.Write(r.Unit)
		if err != nil {
			sysErr := output.NewSystemErrorWithCause(err.Error(), err)
			printer.Error(sysErr)
			return sysErr
		}
		if changed {
			res.Written = append(res.Written, dir.Path(r.Unit))
		} else {
			res.Unchanged = append(res.Unchanged, dir.Path(r.Unit))
		}
	}

	if printer.IsJSON() {
		return printer.WriteJSON(res)
	}
	for _, path := range res.Written {
		printer.Println("Wrote " + printer.Code(path))
	}
	for _, path := range res.Unchanged {
		printer.Println("Unchanged " + printer.Code(path))
	}
	return printer.Success(map[string]any{
		"message": fmt.Sprintf("%d written, %d unchanged", len(res.Written), len(res.Unchanged)),
	})
}

func newGenerateResult(diags []generator.Diagnostic) generateResult {
	if diags == nil {
		diags = []generator.Diagnostic{}
	}
	return generateResult{Written: []string{}, Unchanged: []string{}, Diagnostics: diags}
}

// asExitError keeps an existing exit code and treats anything else as a
// system failure.
func asExitError(err error) *output.ExitError {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return &output.ExitError{Code: exitErr.Code, Message: err.Error(), Cause: err}
	}
	return output.NewSystemErrorWithCause(err.Error(), err)
}
