package override

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/jrnl/internal/settings"
)

// Sentinel errors for override parsing.
var (
	// ErrMalformedOverride indicates an odd number of override tokens.
	ErrMalformedOverride = errors.New("malformed config override")

	// ErrInvalidCoercion indicates a value that does not fit its key's type.
	ErrInvalidCoercion = errors.New("invalid config override value")

	// ErrUnknownKey indicates an override key that names no setting.
	ErrUnknownKey = errors.New("unknown config override key")
)

// tablePaths maps dotted key prefixes to the settings table they address.
var tablePaths = map[string]string{
	"color":    "colors",
	"colors":   "colors",
	"journals": "journals",
}

// Collect builds a settings patch from alternating key and value tokens.
// Later pairs for the same key replace earlier ones.
func Collect(tokens []string) (*settings.Patch, error) {
	if len(tokens)%2 != 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrMalformedOverride, "got %d tokens, want key/value pairs", len(tokens)),
			"pass each override as KEY=VALUE, for example --config-override encrypt=true",
		)
	}

	patch := settings.NewPatch()
	for i := 0; i < len(tokens); i += 2 {
		key, raw := tokens[i], tokens[i+1]
		path, value, err := coerce(key, raw)
		if err != nil {
			return nil, err
		}
		if err := patch.Set(path, value); err != nil {
			return nil, errors.Wrapf(err, "override %s", key)
		}
	}

	if err := patch.Validate(); err != nil {
		return nil, errors.Wrap(err, "config override")
	}
	return patch, nil
}

// coerce maps one override pair to its path in the settings document and a
// value typed for that path.
func coerce(key, raw string) ([]string, any, error) {
	if prefix, name, ok := strings.Cut(key, "."); ok {
		table, known := tablePaths[prefix]
		if !known || name == "" {
			return nil, nil, unknownKey(key)
		}
		return []string{table, name}, raw, nil
	}

	kind, ok := settings.KeyKind(key)
	if !ok {
		return nil, nil, unknownKey(key)
	}

	switch kind {
	case settings.KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s", key)
		}
		return []string{key}, b, nil
	case settings.KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrInvalidCoercion, "%s: %q is not an integer", key, raw)
		}
		return []string{key}, n, nil
	case settings.KindLineWrap:
		w, err := settings.ParseLineWrap(raw)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrInvalidCoercion, "%s: %q is not an integer or \"auto\"", key, raw)
		}
		return []string{key}, w, nil
	case settings.KindTemplate:
		return []string{key}, settings.ParseTemplate(raw), nil
	default:
		return []string{key}, raw, nil
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, errors.Wrapf(ErrInvalidCoercion, "%q is not a boolean (use true, false, 1 or 0)", raw)
}

func unknownKey(key string) error {
	return errors.WithHintf(
		errors.Wrapf(ErrUnknownKey, "%q", key),
		"valid keys: %s, color.<part>, journals.<name>",
		strings.Join(scalarKeys(), ", "),
	)
}

func scalarKeys() []string {
	var keys []string
	for _, k := range settings.Keys() {
		if _, ok := settings.KeyKind(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Flatten turns repeated flag values into the token stream Collect expects.
// A value in key position written as KEY=VALUE yields two tokens; any other
// value is one token. Values in value position are never split.
func Flatten(values []string) []string {
	tokens := make([]string, 0, len(values)*2)
	expectKey := true
	for _, v := range values {
		if expectKey {
			if k, val, ok := strings.Cut(v, "="); ok && k != "" {
				tokens = append(tokens, k, val)
				continue
			}
			tokens = append(tokens, v)
			expectKey = false
			continue
		}
		tokens = append(tokens, v)
		expectKey = true
	}
	return tokens
}
