package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/jrnl/cmd"
	"github.com/thoreinstein/jrnl/internal/paths"
	"github.com/thoreinstein/jrnl/pkg/fileutil"
)

const (
	manifestName = "manifest.json"
	snapshotName = "journal.txt"
	idLayout     = "20060102T150405.000000"
)

// Manager creates, lists and restores journal snapshots.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of snapshots kept per journal.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a Manager rooted at <DataHome>/jrnl/backups unless
// WithBackupDir says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        filepath.Join(paths.DataDir(), "backups"),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup snapshots the journal file at path and prunes snapshots beyond the
// retention count. It returns ErrNothingToBackUp when the file does not exist.
func (m *Manager) Backup(journal, path string) (*Manifest, error) {
	if journal == "" {
		return nil, errors.New("journal is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNothingToBackUp, "%s", path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf("%s is a directory", path)
	}

	created := m.now().UTC()
	id := created.Format(idLayout)
	dir := m.backupPath(journal, id)
	if err := paths.EnsureDir(dir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	hash, err := copyFile(path, filepath.Join(dir, snapshotName), info.Mode().Perm())
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   created,
		Journal:     journal,
		SourcePath:  path,
		SHA256Hash:  hash,
		Mode:        info.Mode().Perm(),
		JrnlVersion: cmd.Version,
		ID:          id,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}
	if err := fileutil.AtomicWriteFile(filepath.Join(dir, manifestName), data, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(journal, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// Restore writes the snapshot back over its source journal file after
// verifying its hash.
func (m *Manager) Restore(journal, id string) (*Manifest, error) {
	manifest, err := m.Get(journal, id)
	if err != nil {
		return nil, err
	}

	src := filepath.Join(m.backupPath(journal, id), snapshotName)
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", id)
	}
	if sum := sha256.Sum256(data); hex.EncodeToString(sum[:]) != manifest.SHA256Hash {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", id)
	}

	if err := paths.EnsureDir(filepath.Dir(manifest.SourcePath), 0); err != nil {
		return nil, errors.Wrapf(err, "creating directory for %s", manifest.SourcePath)
	}
	if err := fileutil.AtomicWriteFile(manifest.SourcePath, data, manifest.Mode); err != nil {
		return nil, errors.Wrapf(err, "restoring %s", manifest.SourcePath)
	}
	return manifest, nil
}

// List returns the journal's snapshots, newest first.
func (m *Manager) List(journal string) ([]Manifest, error) {
	entries, err := os.ReadDir(m.journalBackupDir(journal))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "journal %q", journal)
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(journal, entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, errors.Wrapf(ErrNoBackupsFound, "journal %q", journal)
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return manifests, nil
}

// Prune removes all but the newest keep snapshots of the journal.
func (m *Manager) Prune(journal string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(journal)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for _, old := range manifests[min(keep, len(manifests)):] {
		if err := os.RemoveAll(m.backupPath(journal, old.ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", old.ID)
		}
	}
	return nil
}

// Get returns the manifest of one snapshot.
func (m *Manager) Get(journal, id string) (*Manifest, error) {
	if id == "" || id != filepath.Base(id) {
		return nil, errors.Newf("invalid backup ID %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.backupPath(journal, id), manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

func (m *Manager) backupPath(journal, id string) string {
	return filepath.Join(m.journalBackupDir(journal), id)
}

// journalBackupDir escapes the journal name so any name maps to one directory.
func (m *Manager) journalBackupDir(journal string) string {
	return filepath.Join(m.rootDir, url.PathEscape(journal))
}

// copyFile copies src to dst with perm, returning the SHA256 of the contents.
func copyFile(src, dst string, perm fs.FileMode) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "opening journal file")
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return "", errors.Wrap(err, "creating backup file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return "", errors.Wrap(err, "copying journal file")
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "closing backup file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
