package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jrnl/internal/logging"
)

func TestLoadOrBootstrap_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "jrnl.yaml")
	journal := filepath.Join(dir, "journal.txt")

	l := &Loader{JournalPath: journal, Logger: logging.ForTest(t)}
	s, err := l.LoadOrBootstrap(path, nil)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err, "settings file should be written")
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.JournalFile(DefaultJournalName)
	require.NoError(t, err)
	assert.Equal(t, journal, got)
	assert.Equal(t, SchemaVersion, s.Version)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := Marshal(Default(journal))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(data))
}

func TestLoadOrBootstrap_AppliesPatchAfterBootstrap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jrnl.yaml")

	p := NewPatch()
	require.NoError(t, p.Set([]string{"linewrap"}, "auto"))

	l := &Loader{JournalPath: filepath.Join(dir, "journal.txt")}
	s, err := l.LoadOrBootstrap(path, p)
	require.NoError(t, err)

	wrap, err := s.LineWrap(DefaultJournalName)
	require.NoError(t, err)
	assert.True(t, wrap.Auto)

	// The override is not persisted.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "linewrap: 79\n")
}

func TestLoadOrBootstrap_ReadsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jrnl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))

	l := &Loader{JournalPath: "/unused"}
	s, err := l.LoadOrBootstrap(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "food", "work"}, s.JournalNames())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(data), "existing file must not be rewritten")
}

func TestLoadOrBootstrap_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jrnl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bogus: 1\n"), 0o644))

	l := NewLoader(nil)
	_, err := l.LoadOrBootstrap(path, nil)

	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "bogus", se.Key)
}

func TestLoadOrBootstrap_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	l := &Loader{JournalPath: "j.txt"}
	_, err := l.LoadOrBootstrap(filepath.Join(blocker, "jrnl.yaml"), nil)
	assert.Error(t, err)
}
