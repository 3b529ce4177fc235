package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/gitinfo/internal/git"
	"github.com/gorewood/gitinfo/internal/metadata"
)

// showResult is the JSON shape of the show command.
type showResult struct {
	Usable   bool              `json:"usable"`
	Metadata metadata.Metadata `json:"metadata"`
}

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	return newShowCmdInternal(nil)
}

// newShowCmdInternal creates the show command with optional repository
// injection. If repo is nil, git runs in the configured repository directory.
func newShowCmdInternal(repo metadata.Repository) *cobra.Command {
	var gitFlag, repoFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the metadata generate would embed",
		Long: `Print the branch, commit hash and tags that generate would embed,
and whether git could describe the repository at all.

Examples:
  gitinfo show                 # Current directory
  gitinfo show --repo ../app   # Another repository
  gitinfo show --json          # As JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := repo
			if target == nil {
				cfg := configFrom(cmd)
				tool, dir := cfg.Git, cfg.Dir
				if gitFlag != "" {
					tool = gitFlag
				}
				if repoFlag != "" {
					dir = repoFlag
				}
				target = git.NewInspector(git.ExecRunner{Dir: dir}, tool)
			}
			return runShow(cmd, target)
		},
	}

	cmd.Flags().StringVar(&gitFlag, "git", "", "Git executable (default from config, else git)")
	cmd.Flags().StringVar(&repoFlag, "repo", "", "Repository directory to query (default current directory)")

	return cmd
}

// runShow executes the show command.
func runShow(cmd *cobra.Command, repo metadata.Repository) error {
	printer := newPrinter(cmd)
	ctx := cmd.Context()

	usable, err := repo.Usable(ctx)
	if err != nil {
		sysErr := asExitError(err)
		printer.Error(sysErr)
		return sysErr
	}

	var md metadata.Metadata
	if usable {
		md, err = metadata.Extract(ctx, repo)
		if err != nil {
			sysErr := asExitError(err)
			printer.Error(sysErr)
			return sysErr
		}
	}

	if printer.IsJSON() {
		return printer.WriteJSON(showResult{Usable: usable, Metadata: md})
	}

	printer.Section("Repository")
	switch {
	case !usable:
		printer.Warn("git is unavailable or this is not a git repository")
	case md.IsEmpty():
		printer.Warn("git reported no branch, hash or tags; the repository may have no commits yet")
	}
	printer.KeyValue("Branch", md.Branch())
	printer.KeyValue("Hash", md.Hash())
	printer.KeyValue("Tags", strings.Join(md.Tags(), ", "))
	return nil
}
