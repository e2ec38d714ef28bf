package settings

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/jrnl/internal/paths"
	"github.com/thoreinstein/jrnl/pkg/fileutil"
)

// Load decodes a settings document after merging patch over it. A nil patch
// is allowed.
func Load(data []byte, patch *Patch) (*Settings, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	if !patch.Empty() {
		if err := patch.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid config override")
		}
		if err := patch.Apply(root); err != nil {
			return nil, err
		}
	}
	return decodeSettings(root)
}

// Loader reads the settings file, writing a default one first when it does
// not exist.
type Loader struct {
	// JournalPath is the journal file named by a freshly written document.
	JournalPath string

	Logger *slog.Logger
}

// NewLoader returns a Loader that bootstraps with the default journal location.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		JournalPath: paths.DefaultJournalFile(),
		Logger:      logger,
	}
}

// LoadOrBootstrap loads the settings file at path with patch merged over it.
// When the file does not exist, the default document is written there first
// and then loaded the same way.
func (l *Loader) LoadOrBootstrap(path string, patch *Patch) (*Settings, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	data, err := fileutil.ReadFileWithLimit(path)
	switch {
	case err == nil:
		logger.Debug("read settings", "path", path, "bytes", len(data))
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("settings file not found, writing defaults", "path", path, "journal", l.JournalPath)
		data, err = l.bootstrap(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(err, "reading settings %s", path)
	}

	s, err := Load(data, patch)
	if err != nil {
		return nil, errors.Wrapf(err, "loading settings %s", path)
	}
	logger.Debug("settings loaded", "journals", len(s.JournalNames()), "overrides", patch.Len())
	return s, nil
}

func (l *Loader) bootstrap(path string) ([]byte, error) {
	data, err := Marshal(Default(l.JournalPath))
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return nil, errors.Wrap(err, "creating settings directory")
	}
	if err := fileutil.AtomicWriteFile(path, data, 0o600); err != nil {
		return nil, errors.Wrapf(err, "writing default settings %s", path)
	}
	return data, nil
}
