package git

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"golang.org/x/sync/errgroup"

	"github.com/gorewood/gitinfo/internal/logging"
	"github.com/gorewood/gitinfo/internal/output"
)

//go:generate go tool mockgen -source=git.go -destination=mock/runner.go -package=mock

// maxLineSize bounds a single line of tool output.
const maxLineSize = 1024 * 1024

// CommandResult is the captured outcome of one command invocation.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Failed reports whether the command wrote anything to stderr, even a
// blank line, or exited non-zero.
func (r CommandResult) Failed() bool {
	return r.ExitCode != 0 || r.Stderr != ""
}

// Runner executes a command line and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, commandLine string) (CommandResult, error)
}

// ExecRunner runs commands directly with os/exec, never through a shell.
// Dir is the working directory; empty means the current directory.
type ExecRunner struct {
	Dir string
}

// Run splits commandLine into program and arguments, starts the program and
// blocks until it exits, draining stdout and stderr line by line. Each
// captured line is followed by the platform line terminator.
//
// A non-zero exit status is reported in CommandResult.ExitCode. An error is
// returned only when the process cannot be started.
func (r ExecRunner) Run(ctx context.Context, commandLine string) (CommandResult, error) {
	args, err := shellwords.Parse(commandLine)
	if err != nil {
		return CommandResult{}, output.NewSystemErrorWithCause(
			fmt.Sprintf("cannot parse command line %q: %v", commandLine, err), err)
	}
	if len(args) == 0 {
		return CommandResult{}, output.NewSystemError("cannot run an empty command line")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.Dir
	hideWindow(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CommandResult{}, output.NewSystemErrorWithCause("cannot capture stdout of "+args[0], err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return CommandResult{}, output.NewSystemErrorWithCause("cannot capture stderr of "+args[0], err)
	}

	if err := cmd.Start(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return CommandResult{}, output.NewSystemErrorWithCause(
				fmt.Sprintf("%s not found: ensure it is installed and in PATH", args[0]), err)
		}
		return CommandResult{}, output.NewSystemErrorWithCause(
			fmt.Sprintf("cannot start %s: %v", args[0], err), err)
	}

	var outText, errText strings.Builder
	var drains errgroup.Group
	drains.Go(func() error { return drainLines(stdout, &outText) })
	drains.Go(func() error { return drainLines(stderr, &errText) })
	drainErr := drains.Wait()

	// A non-zero exit surfaces as *exec.ExitError and is not a failure here.
	_ = cmd.Wait()

	result := CommandResult{
		Stdout:   outText.String(),
		Stderr:   errText.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if drainErr != nil && result.Stderr == "" {
		result.Stderr = "reading output: " + drainErr.Error() + lineTerminator
	}

	logging.WithComponent("git").
		WithField("exit_code", result.ExitCode).
		WithField("stderr_bytes", len(result.Stderr)).
		Debugf("ran %s", commandLine)

	return result, nil
}

// drainLines copies r into dst one line at a time. On a read error it keeps
// discarding input so the child never blocks on a full pipe.
func drainLines(r io.Reader, dst *strings.Builder) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		dst.WriteString(scanner.Text())
		dst.WriteString(lineTerminator)
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return fmt.Errorf("scanning output: %w", err)
	}
	return nil
}
