// Package paths provides cross-platform path resolution for jrnl's settings
// document and journal files.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux, the settings document lives at
// ~/.config/jrnl/jrnl.yaml and the bootstrapped journal at
// ~/.local/share/jrnl/journal.txt.
//
// # Home Expansion
//
// Journal paths are user-written and frequently start with "~". Use [Expand]
// before opening one:
//
//	p, err := paths.Expand("~/work.txt")
package paths
