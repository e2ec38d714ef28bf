package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
)

// AppName names the per-application directories under the XDG base dirs.
const AppName = "jrnl"

const (
	// ConfigFileName is the name of the settings document inside ConfigDir.
	ConfigFileName = "jrnl.yaml"

	// JournalFileName is the name of the bootstrapped default journal inside DataDir.
	JournalFileName = "journal.txt"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// Expand resolves a leading "~" in path to the user's home directory.
// Journal paths in the settings document are commonly written as ~/work.txt.
// Paths without a leading "~" are returned unchanged.
func Expand(path string) (string, error) {
	if path == "" {
		return "", ErrInvalidPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "expanding %q: %v", path, err)
	}
	return expanded, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns <ConfigHome>/jrnl.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// DataDir returns <DataHome>/jrnl.
func DataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// DefaultConfigFile returns the settings document used when --config-file is not given.
// Returns: <ConfigHome>/jrnl/jrnl.yaml
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// DefaultJournalFile returns the journal written into a freshly bootstrapped
// settings document.
// Returns: <DataHome>/jrnl/journal.txt
func DefaultJournalFile() string {
	return filepath.Join(DataDir(), JournalFileName)
}
