// Package git queries repository state by running the git executable.
//
// Two layers live here. A Runner executes one command line and reports its
// stdout, stderr and exit code; ExecRunner is the os/exec implementation.
// An Inspector builds git command lines on top of a Runner and turns the
// output into clean values:
//
//	insp := git.NewInspector(git.ExecRunner{Dir: repoDir}, "git")
//	usable, err := insp.Usable(ctx)
//	branch, hash, err := insp.BranchAndHash(ctx)
//	tags, err := insp.Tags(ctx, hash)
//
// # Error Handling
//
// A git query that fails (non-zero exit, anything on stderr) is not an
// error: the affected value comes back empty. The only error these
// functions return is a process that could not be started at all, wrapped
// as an *output.ExitError with ExitSystemError.
//
// # Testing
//
// Runner is small enough to mock; see the mock subpackage, generated with
// mockgen from git.go.
package git
