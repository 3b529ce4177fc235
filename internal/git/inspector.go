package git

import (
	"context"
	"strings"
)

// DefaultTool is the executable used when no explicit git path is configured.
const DefaultTool = "git"

// Inspector answers the repository questions gitinfo needs, one Runner
// call per question.
type Inspector struct {
	runner Runner
	tool   string
}

// NewInspector returns an Inspector that runs tool (DefaultTool when empty)
// through runner.
func NewInspector(runner Runner, tool string) *Inspector {
	if tool == "" {
		tool = DefaultTool
	}
	return &Inspector{runner: runner, tool: tool}
}

// Usable reports whether git recognises the working directory as a
// repository: `git status` must leave stderr empty. A blank stderr line
// counts as output.
func (i *Inspector) Usable(ctx context.Context) (bool, error) {
	res, err := i.run(ctx, "status")
	if err != nil {
		return false, err
	}
	return res.Stderr == "", nil
}

// BranchAndHash returns the current branch name and full commit hash.
// Each value is independently empty when its query fails.
func (i *Inspector) BranchAndHash(ctx context.Context) (branch, hash string, err error) {
	branchRes, err := i.run(ctx, "branch", "--contains", "HEAD")
	if err != nil {
		return "", "", err
	}
	hashRes, err := i.run(ctx, "show", "--no-patch", "--format=%H", "HEAD")
	if err != nil {
		return "", "", err
	}

	if !branchRes.Failed() {
		branch = ParseBranch(branchRes.Stdout)
	}
	if !hashRes.Failed() {
		hash = strings.TrimSpace(hashRes.Stdout)
	}
	return branch, hash, nil
}

// Tags returns the tags containing hash in the order git lists them.
// An empty hash lets git fall back to HEAD. A failed query yields no tags.
func (i *Inspector) Tags(ctx context.Context, hash string) ([]string, error) {
	args := []string{"tag", "--contains"}
	if hash != "" {
		args = append(args, hash)
	}
	res, err := i.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return []string{}, nil
	}
	return ParseTags(res.Stdout), nil
}

func (i *Inspector) run(ctx context.Context, args ...string) (CommandResult, error) {
	return i.runner.Run(ctx, CommandLine(i.tool, args...))
}

// ParseBranch extracts the branch name from `git branch` output, dropping
// the one-character marker column and surrounding whitespace.
//
// When several branches are listed the line marked current ("*") wins,
// otherwise the first non-empty line.
func ParseBranch(raw string) string {
	first := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "*") {
			return strings.TrimSpace(line[1:])
		}
		if first == "" {
			first = stripMarker(line)
		}
	}
	return first
}

// stripMarker removes the "+ " worktree marker git prints for branches
// checked out elsewhere.
func stripMarker(line string) string {
	if strings.HasPrefix(line, "+ ") {
		return strings.TrimSpace(line[1:])
	}
	return line
}

// ParseTags splits `git tag` output into tag names, one per line, keeping
// git's order. Blank input yields an empty, non-nil slice.
func ParseTags(raw string) []string {
	tags := []string{}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return tags
	}
	for _, line := range strings.Split(trimmed, "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CommandLine joins a program and its arguments into a command line that
// ExecRunner splits back into the same words.
func CommandLine(program string, args ...string) string {
	words := make([]string, 0, len(args)+1)
	words = append(words, quote(program))
	for _, arg := range args {
		words = append(words, quote(arg))
	}
	return strings.Join(words, " ")
}

// quote single-quotes s unless it consists only of characters that the
// shellwords parser passes through unchanged.
func quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !isSafeRune(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./:=%+@,", r)
}
