package settings

import (
	"bytes"
	"slices"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	keyVersion  = "version"
	keyJournal  = "journal"
	keyJournals = "journals"
	keyColors   = "colors"
)

// Kind classifies how a settings key's value is typed.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindChar
	KindLineWrap
	KindTemplate
	KindTable
)

// field describes one CommonConfig key. Fields are listed in the order they
// are written, which is alphabetical.
type field struct {
	key    string
	kind   Kind
	decode func(c *CommonConfig, node *yaml.Node) error
	encode func(c *CommonConfig) (key string, value *yaml.Node, ok bool, err error)
}

func commonFields() []field {
	return []field{
		optional(keyColors, KindTable, func(c *CommonConfig) **ColorConfig { return &c.Colors }, nil),
		optional("default_hour", KindInt, func(c *CommonConfig) **int { return &c.DefaultHour }, inRange(0, 23)),
		optional("default_minute", KindInt, func(c *CommonConfig) **int { return &c.DefaultMinute }, inRange(0, 59)),
		optional("display_format", KindString, func(c *CommonConfig) **DisplayFormat { return &c.DisplayFormat }, nil),
		optional("editor", KindString, func(c *CommonConfig) **string { return &c.Editor }, nil),
		optional("encrypt", KindBool, func(c *CommonConfig) **bool { return &c.Encrypt }, nil),
		optional("highlight", KindBool, func(c *CommonConfig) **bool { return &c.Highlight }, nil),
		{key: "indent_character", kind: KindChar, decode: decodeIndent, encode: encodeIndent},
		{key: keyJournals, kind: KindTable, encode: encodeJournals},
		optional("linewrap", KindLineWrap, func(c *CommonConfig) **LineWrap { return &c.LineWrap }, nil),
		optional("tagsymbols", KindString, func(c *CommonConfig) **string { return &c.TagSymbols }, nil),
		optional("template", KindTemplate, func(c *CommonConfig) **Template { return &c.Template }, nil),
		optional("timeformat", KindString, func(c *CommonConfig) **string { return &c.TimeFormat }, nil),
	}
}

func optional[T any](key string, kind Kind, ref func(*CommonConfig) **T, check func(T) error) field {
	return field{
		key:  key,
		kind: kind,
		decode: func(c *CommonConfig, node *yaml.Node) error {
			if kind != KindTable && node.Kind != yaml.ScalarNode {
				return errors.Wrapf(ErrInvalidValue, "expected a scalar, got %s", describe(node))
			}
			v := new(T)
			if err := node.Decode(v); err != nil {
				return err
			}
			if check != nil {
				if err := check(*v); err != nil {
					return err
				}
			}
			*ref(c) = v
			return nil
		},
		encode: func(c *CommonConfig) (string, *yaml.Node, bool, error) {
			v := *ref(c)
			if v == nil {
				return "", nil, false, nil
			}
			n, err := encodeNode(*v)
			return key, n, true, err
		},
	}
}

func inRange(lo, hi int) func(int) error {
	return func(n int) error {
		if n < lo || n > hi {
			return errors.Wrapf(ErrInvalidValue, "%d is outside %d..%d", n, lo, hi)
		}
		return nil
	}
}

func findField(fields []field, key string) (field, bool) {
	i := slices.IndexFunc(fields, func(f field) bool { return f.key == key })
	if i < 0 {
		return field{}, false
	}
	return fields[i], true
}

// KeyKind reports the type of a scalar CommonConfig key. Tables (colors,
// journals) and unknown keys report false.
func KeyKind(key string) (Kind, bool) {
	f, ok := findField(commonFields(), key)
	if !ok || f.kind == KindTable {
		return 0, false
	}
	return f.kind, true
}

// Keys returns every CommonConfig key in document order.
func Keys() []string {
	fields := commonFields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func decodeIndent(c *CommonConfig, node *yaml.Node) error {
	var s string
	if err := decodeScalar(node, &s); err != nil {
		return err
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return errors.Wrapf(ErrInvalidValue, "indent_character must be a single character, got %q", s)
	}
	c.IndentCharacter = &r
	return nil
}

func encodeIndent(c *CommonConfig) (string, *yaml.Node, bool, error) {
	if c.IndentCharacter == nil {
		return "", nil, false, nil
	}
	n, err := encodeNode(string(*c.IndentCharacter))
	return "indent_character", n, true, err
}

func encodeJournals(c *CommonConfig) (string, *yaml.Node, bool, error) {
	switch jc := c.Journals.(type) {
	case nil:
		return "", nil, false, nil
	case JournalPath:
		n, err := encodeNode(string(jc))
		return keyJournal, n, true, err
	case *JournalMap:
		node := mappingNode()
		for name, cfg := range jc.All() {
			var value any
			switch cfg := cfg.(type) {
			case StandardJournal:
				value = cfg.Path
			case OverrideJournal:
				value = cfg.Config
			default:
				return "", nil, false, errors.Newf("journal %q: unsupported config %T", name, cfg)
			}
			if err := appendPair(node, name, value); err != nil {
				return "", nil, false, err
			}
		}
		return keyJournals, node, true, nil
	default:
		return "", nil, false, errors.Newf("unsupported journals value %T", jc)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. Unknown keys are rejected and
// null values are treated as absent.
func (c *CommonConfig) UnmarshalYAML(node *yaml.Node) error {
	*c = CommonConfig{}
	fields := commonFields()
	return eachPair(node, func(key string, value *yaml.Node) error {
		if isNull(value) {
			return nil
		}
		if key == keyJournal || key == keyJournals {
			if c.Journals != nil {
				return &SchemaError{Key: key, Err: errors.New("'journal' and 'journals' cannot both be set")}
			}
			jc, err := decodeJournalConfigs(key, value)
			if err != nil {
				return withKey(key, err)
			}
			c.Journals = jc
			return nil
		}
		f, ok := findField(fields, key)
		if !ok {
			return &SchemaError{Key: key, Err: ErrUnknownKey}
		}
		return withKey(key, f.decode(c, value))
	})
}

// MarshalYAML implements yaml.Marshaler. Absent fields are omitted.
func (c CommonConfig) MarshalYAML() (any, error) {
	return c.marshalNode()
}

func (c *CommonConfig) marshalNode() (*yaml.Node, error) {
	node := mappingNode()
	for _, f := range commonFields() {
		key, value, ok, err := f.encode(c)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", f.key)
		}
		if ok {
			node.Content = append(node.Content, keyNode(key), value)
		}
	}
	return node, nil
}

func decodeJournalConfigs(key string, node *yaml.Node) (JournalConfigs, error) {
	if key == keyJournal {
		var path string
		if err := decodeScalar(node, &path); err != nil {
			return nil, err
		}
		return JournalPath(path), nil
	}
	journals := NewJournalMap()
	err := eachPair(node, func(name string, value *yaml.Node) error {
		cfg, err := decodeJournalConfig(value)
		if err != nil {
			return withKey(name, err)
		}
		journals.Set(name, cfg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return journals, nil
}

func decodeJournalConfig(node *yaml.Node) (JournalConfig, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() != "!!str" {
			return nil, errors.Wrapf(ErrInvalidValue, "journal must be a path or a table, got %s", describe(node))
		}
		return StandardJournal{Path: node.Value}, nil
	case yaml.MappingNode:
		var cfg CommonConfig
		if err := cfg.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return OverrideJournal{Config: cfg}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidValue, "journal must be a path or a table, got %s", describe(node))
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Settings) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return &SchemaError{Err: errors.Newf("expected a mapping, got %s", describe(node))}
	}
	*s = Settings{}
	rest := mappingNode()
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Value == keyVersion {
			if err := decodeScalar(v, &s.Version); err != nil {
				return withKey(keyVersion, err)
			}
			continue
		}
		rest.Content = append(rest.Content, k, v)
	}
	return s.Config.UnmarshalYAML(rest)
}

// MarshalYAML implements yaml.Marshaler. The version is written last.
func (s Settings) MarshalYAML() (any, error) {
	node, err := s.Config.marshalNode()
	if err != nil {
		return nil, err
	}
	if s.Version != "" {
		if err := appendPair(node, keyVersion, s.Version); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Parse decodes a settings document. An empty document yields empty settings.
func Parse(data []byte) (*Settings, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return decodeSettings(root)
}

// Marshal encodes settings as YAML with two-space indentation.
func Marshal(s *Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, errors.Wrap(err, "encoding settings")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding settings")
	}
	return buf.Bytes(), nil
}

func decodeSettings(root *yaml.Node) (*Settings, error) {
	var s Settings
	if err := s.UnmarshalYAML(root); err != nil {
		return nil, err
	}
	return &s, nil
}

// parseDocument returns the root node of a YAML document, or an empty mapping
// when the document is empty or null.
func parseDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{Err: errors.Wrap(err, "parsing YAML")}
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 || isNull(doc.Content[0]) {
			return mappingNode(), nil
		}
		return doc.Content[0], nil
	}
	if doc.Kind == 0 {
		return mappingNode(), nil
	}
	return &doc, nil
}

// eachPair calls fn for each key/value pair of a mapping, rejecting duplicate keys.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return errors.Wrapf(ErrInvalidValue, "expected a mapping, got %s", describe(node))
	}
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, resolveAlias(node.Content[i+1])
		if seen[key] {
			return &SchemaError{Key: key, Err: ErrDuplicateKey}
		}
		seen[key] = true
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

func decodeScalar(node *yaml.Node, out *string) error {
	node = resolveAlias(node)
	if node.Kind != yaml.ScalarNode || isNull(node) {
		return errors.Wrapf(ErrInvalidValue, "expected a scalar, got %s", describe(node))
	}
	*out = node.Value
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return node.ShortTag() + " " + node.Value
	default:
		return "an empty value"
	}
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

func encodeNode(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

func appendPair(node *yaml.Node, key string, value any) error {
	v, err := encodeNode(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	node.Content = append(node.Content, keyNode(key), v)
	return nil
}
