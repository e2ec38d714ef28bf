package settings

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Resolution errors. Each names a distinct way a journal's settings can fail
// to resolve.
var (
	// ErrMissingJournalConfig indicates the named journal is not configured,
	// or no journals are configured at all.
	ErrMissingJournalConfig = errors.New("no such journal configured")

	// ErrTopLevelJournalConfig indicates the document root names a single
	// journal file instead of a journals table.
	ErrTopLevelJournalConfig = errors.New("illegal 'journal' key found at top level")

	// ErrInvalidJrnlOverrideConfig indicates a journal override does not name
	// exactly one journal file, or a required setting has no value anywhere.
	ErrInvalidJrnlOverrideConfig = errors.New("invalid journal override config")
)

// Document shape errors, wrapped in a *SchemaError naming the key.
var (
	ErrUnknownKey   = errors.New("unknown key")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidValue = errors.New("invalid value")
)

// SchemaError reports a settings document that does not match the schema.
type SchemaError struct {
	Key string // Dotted path of the offending key, empty for the document root
	Err error  // Underlying error
}

func (e *SchemaError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid settings: %v", e.Err)
	}
	return fmt.Sprintf("invalid settings at %q: %v", e.Key, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// withKey qualifies err with key, folding nested schema errors into one dotted path.
func withKey(key string, err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SchemaError); ok {
		if se.Key == "" {
			return &SchemaError{Key: key, Err: se.Err}
		}
		return &SchemaError{Key: key + "." + se.Key, Err: se.Err}
	}
	return &SchemaError{Key: key, Err: err}
}
