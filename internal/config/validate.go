package config

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/jrnl/internal/logging"
)

// Validation errors for options.
var (
	// ErrInvalidLogFormat indicates an unrecognized log format.
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrEmptyConfigFile indicates the config file path resolved to nothing.
	ErrEmptyConfigFile = errors.New("config file path is empty")

	// ErrEmptyBackupDir indicates the backup directory resolved to nothing.
	ErrEmptyBackupDir = errors.New("backup directory is empty")
)

// OptionError reports an invalid option value.
type OptionError struct {
	Key   string
	Value string
	Err   error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Key, e.Value, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// Validate checks opts. It returns nil if they are valid, or every problem found.
func Validate(opts *Options) []error {
	if opts == nil {
		return []error{errors.New("options are nil")}
	}

	var errs []error

	if opts.ConfigFile == "" {
		errs = append(errs, ErrEmptyConfigFile)
	}

	if opts.BackupDir == "" {
		errs = append(errs, ErrEmptyBackupDir)
	}

	switch logging.Format(opts.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, &OptionError{Key: KeyLogFormat, Value: opts.LogFormat, Err: ErrInvalidLogFormat})
	}

	return errs
}
