// Package output renders gitinfo results for people and for scripts.
//
// Every command writes through a Printer, which switches between styled
// human output and JSON based on the --json flag:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, colorEnabled)
//	printer.KeyValue("Branch", md.Branch())
//	printer.Diagnostic(diag.String())
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: Bad flags, unknown language, invalid config
//	output.ExitSystemError // 2: git could not be started, I/O failure
//	output.ExitStale       // 3: generate --check found out-of-date files
//
// Errors built with NewUserError, NewSystemError and NewStaleError carry
// their exit code; GetExitCode recovers it for os.Exit.
//
// A GITINFO01 diagnostic is a warning, never an error: it is printed and
// the command still succeeds.
package output
