package fileutil

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// MaxFileSize is the maximum settings document size we'll read (1MB).
const MaxFileSize = 1024 * 1024 // 1MB

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads a file up to MaxFileSize.
// It returns an error if the file is larger than the limit.
func ReadFileWithLimit(path string) ([]byte, error) {
	return ReadFileLimit(path, MaxFileSize)
}

// ReadFileLimit reads a file up to limit bytes.
// Errors from opening the file wrap the underlying *fs.PathError, so
// errors.Is(err, fs.ErrNotExist) still works for callers.
func ReadFileLimit(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Get file info to fail fast if size is already too large
	info, err := f.Stat()
	if err == nil {
		if info.Size() > limit {
			return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
		}
	}

	r := io.LimitReader(f, limit+1)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds limit %d", path, limit)
	}

	return data, nil
}
