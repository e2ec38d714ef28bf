// Package cmd holds the build metadata of the jrnl binary.
package cmd

// Set at build time with -ldflags "-X github.com/thoreinstein/jrnl/cmd.Version=...".
var (
	// Version is the release version, or "dev" for local builds.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is when the binary was built.
	Date = "unknown"
)
