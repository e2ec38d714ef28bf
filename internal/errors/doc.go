// Package errors provides error handling conventions for the jrnl CLI.
//
// This package re-exports the cockroachdb/errors helpers used across the
// command layer, an ExitError type for CLI exit code handling, and exit code
// constants following standard Unix conventions.
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid config, unknown journal, bad override)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := jrnlerrors.NewUserError(settings.ErrMissingJournalConfig, "Run: jrnl list")
//	var exitErr *jrnlerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
