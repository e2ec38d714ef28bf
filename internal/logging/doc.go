// Package logging provides structured logging for the jrnl CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Debug("loaded settings", "path", configPath)
//
// The root command stores its logger in the command context; use
// [FromContext] to retrieve it.
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging
