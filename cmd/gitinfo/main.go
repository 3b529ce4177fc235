// Package main provides the entry point for the gitinfo CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/gitinfo/internal/config"
	"github.com/gorewood/gitinfo/internal/logging"
	"github.com/gorewood/gitinfo/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type configKey struct{}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return persistentFlag(cmd, "json") == "true"
}

// useColor resolves --color against whether stdout is a terminal. An
// invalid mode, already rejected by the root command, means no color.
func useColor(cmd *cobra.Command) bool {
	color, err := output.ResolveColorMode(persistentFlag(cmd, "color"), output.IsTTY(cmd.OutOrStdout()))
	return err == nil && color
}

// newPrinter builds the printer every command reports through.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())
}

func persistentFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		// Walk up to root to find the persistent flag
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// configFrom returns the config resolved by the root command, or the
// defaults when a command runs without it (as in tests).
func configFrom(cmd *cobra.Command) *config.Config {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg
		}
	}
	return config.Default()
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the gitinfo CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitinfo",
		Short: "Embed git branch, commit and tags into generated source",
		Long: `gitinfo - Embed the current git branch, commit hash and tags into generated source.

For each target type gitinfo asks git for:
  - the branch checked out (git branch --contains HEAD)
  - the full commit hash (git show --no-patch --format=%H HEAD)
  - the tags containing that commit (git tag --contains <hash>)

and writes a source file adding BranchName, Hash and Tags to the type.
When git is missing or the directory is not a repository the file is still
written with empty values and a GITINFO01 warning is printed.

Mark Go types with a //gitinfo:generate doc comment, or run from go:generate:
  //go:generate gitinfo generate --type Build

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// If --json flag is set but no subcommand, output JSON error
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'gitinfo --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Resolve config (after .env.local and .env) and set up logging once
	// for whichever subcommand runs.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if _, err := output.ResolveColorMode(persistentFlag(cmd, "color"), false); err != nil {
			userErr := output.NewUserErrorWithCause(err.Error(), err)
			newPrinter(cmd).Error(userErr)
			return userErr
		}

		cfg, err := config.Resolve(persistentFlag(cmd, "config"))
		if err != nil {
			userErr := output.NewUserErrorWithCause(err.Error(), err)
			newPrinter(cmd).Error(userErr)
			return userErr
		}
		if persistentFlag(cmd, "verbose") == "true" {
			cfg.Log.Level = "debug"
		}
		logging.Init(cfg.Log, cmd.ErrOrStderr())
		logging.WithComponent("cli").WithField("config", cfg.Source).Debug("config resolved")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", output.ColorAuto, "Colorize output: auto, always, never")
	cmd.PersistentFlags().Bool("verbose", false, "Log git invocations to stderr")
	cmd.PersistentFlags().String("config", "", "Config file (default ./"+config.FileName+")")

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
