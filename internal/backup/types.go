package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// ManifestVersion is the manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the number of snapshots kept per journal.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no snapshots exist for the journal.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrNothingToBackUp indicates the journal file does not exist yet.
	ErrNothingToBackUp = errors.New("nothing to back up")

	// ErrBackupCorrupted indicates the snapshot no longer matches its recorded hash.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one snapshot. It is stored as manifest.json next to
// the copied journal file.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`

	// Journal is the journal name the snapshot belongs to.
	Journal string `json:"journal"`

	// SourcePath is the journal file that was copied.
	SourcePath string `json:"source_path"`

	// SHA256Hash is the hex-encoded SHA256 of the copied contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the journal file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// JrnlVersion is the version of jrnl that took the snapshot.
	JrnlVersion string `json:"jrnl_version"`

	// ID identifies the snapshot within its journal. It is the directory
	// name and is not stored in JSON.
	ID string `json:"-"`
}
