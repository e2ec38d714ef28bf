package settings

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// TextColor names the terminal foreground color used for one part of an entry.
type TextColor string

// Accepted color names.
const (
	ColorNone    TextColor = "none"
	ColorBlack   TextColor = "black"
	ColorRed     TextColor = "red"
	ColorGreen   TextColor = "green"
	ColorYellow  TextColor = "yellow"
	ColorBlue    TextColor = "blue"
	ColorMagenta TextColor = "magenta"
	ColorCyan    TextColor = "cyan"
	ColorWhite   TextColor = "white"
)

// TextColors returns every accepted color name.
func TextColors() []TextColor {
	return []TextColor{
		ColorNone, ColorBlack, ColorRed, ColorGreen, ColorYellow,
		ColorBlue, ColorMagenta, ColorCyan, ColorWhite,
	}
}

// ParseTextColor parses a color name, ignoring case.
func ParseTextColor(s string) (TextColor, error) {
	c := TextColor(strings.ToLower(s))
	if !slices.Contains(TextColors(), c) {
		return "", errors.Wrapf(ErrInvalidValue, "unknown color %q (valid: %s)", s, joinNames(TextColors()))
	}
	return c, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *TextColor) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := decodeScalar(node, &s); err != nil {
		return err
	}
	parsed, err := ParseTextColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ColorConfig is the colors table. Each part is independently optional.
type ColorConfig struct {
	Body  *TextColor
	Date  *TextColor
	Tags  *TextColor
	Title *TextColor
}

// Colors is a fully resolved color table.
type Colors struct {
	Body  TextColor
	Date  TextColor
	Tags  TextColor
	Title TextColor
}

type colorPart struct {
	key      string
	ref      func(*ColorConfig) **TextColor
	resolved func(*Colors) *TextColor
}

// colorParts lists the colors table keys in document order.
func colorParts() []colorPart {
	return []colorPart{
		{"body", func(c *ColorConfig) **TextColor { return &c.Body }, func(c *Colors) *TextColor { return &c.Body }},
		{"date", func(c *ColorConfig) **TextColor { return &c.Date }, func(c *Colors) *TextColor { return &c.Date }},
		{"tags", func(c *ColorConfig) **TextColor { return &c.Tags }, func(c *Colors) *TextColor { return &c.Tags }},
		{"title", func(c *ColorConfig) **TextColor { return &c.Title }, func(c *Colors) *TextColor { return &c.Title }},
	}
}

// ColorKeys returns the keys accepted inside the colors table.
func ColorKeys() []string {
	parts := colorParts()
	keys := make([]string, len(parts))
	for i, p := range parts {
		keys[i] = p.key
	}
	return keys
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *ColorConfig) UnmarshalYAML(node *yaml.Node) error {
	*c = ColorConfig{}
	parts := colorParts()
	return eachPair(node, func(key string, value *yaml.Node) error {
		i := slices.IndexFunc(parts, func(p colorPart) bool { return p.key == key })
		if i < 0 {
			return &SchemaError{Key: key, Err: errors.Wrapf(ErrUnknownKey, "valid: %s", strings.Join(ColorKeys(), ", "))}
		}
		color := new(TextColor)
		if err := color.UnmarshalYAML(value); err != nil {
			return withKey(key, err)
		}
		*parts[i].ref(c) = color
		return nil
	})
}

// MarshalYAML implements yaml.Marshaler.
func (c ColorConfig) MarshalYAML() (any, error) {
	node := mappingNode()
	for _, p := range colorParts() {
		if v := *p.ref(&c); v != nil {
			if err := appendPair(node, p.key, string(*v)); err != nil {
				return nil, err
			}
		}
	}
	return node, nil
}

// DisplayFormat selects how a journal is printed.
type DisplayFormat string

// Accepted display formats.
const (
	DisplayBoxed    DisplayFormat = "boxed"
	DisplayDates    DisplayFormat = "dates"
	DisplayJSON     DisplayFormat = "json"
	DisplayMarkdown DisplayFormat = "markdown"
	DisplayPretty   DisplayFormat = "pretty"
	DisplayShort    DisplayFormat = "short"
	DisplayTags     DisplayFormat = "tags"
	DisplayText     DisplayFormat = "text"
	DisplayXML      DisplayFormat = "xml"
	DisplayYAML     DisplayFormat = "yaml"
)

// DisplayFormats returns every accepted display format.
func DisplayFormats() []DisplayFormat {
	return []DisplayFormat{
		DisplayBoxed, DisplayDates, DisplayJSON, DisplayMarkdown, DisplayPretty,
		DisplayShort, DisplayTags, DisplayText, DisplayXML, DisplayYAML,
	}
}

// ParseDisplayFormat parses a display format name. The short aliases
// md, txt and yml are accepted.
func ParseDisplayFormat(s string) (DisplayFormat, error) {
	name := strings.ToLower(s)
	switch name {
	case "md":
		return DisplayMarkdown, nil
	case "txt":
		return DisplayText, nil
	case "yml":
		return DisplayYAML, nil
	}
	f := DisplayFormat(name)
	if !slices.Contains(DisplayFormats(), f) {
		return "", errors.Wrapf(ErrInvalidValue, "unknown display format %q (valid: %s)", s, joinNames(DisplayFormats()))
	}
	return f, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *DisplayFormat) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := decodeScalar(node, &s); err != nil {
		return err
	}
	parsed, err := ParseDisplayFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// LineWrap is either "auto" (terminal width) or a fixed column count.
type LineWrap struct {
	Auto    bool
	Columns int
}

// ParseLineWrap parses "auto" or a non-negative column count.
func ParseLineWrap(s string) (LineWrap, error) {
	if strings.EqualFold(s, "auto") {
		return LineWrap{Auto: true}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return LineWrap{}, errors.Wrapf(ErrInvalidValue, "linewrap must be \"auto\" or a column count, got %q", s)
	}
	return LineWrap{Columns: n}, nil
}

func (w LineWrap) String() string {
	if w.Auto {
		return "auto"
	}
	return strconv.Itoa(w.Columns)
}

// MarshalYAML implements yaml.Marshaler.
func (w LineWrap) MarshalYAML() (any, error) {
	if w.Auto {
		return "auto", nil
	}
	return w.Columns, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *LineWrap) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := decodeScalar(node, &s); err != nil {
		return err
	}
	if tag := node.ShortTag(); tag != "!!int" && tag != "!!str" {
		return errors.Wrapf(ErrInvalidValue, "linewrap must be \"auto\" or a column count, got %s", tag)
	}
	parsed, err := ParseLineWrap(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Template is either disabled (written as false) or the path of a template file.
type Template struct {
	Path string
}

// Enabled reports whether a template file is configured.
func (t Template) Enabled() bool {
	return t.Path != ""
}

// ParseTemplate parses "false" as a disabled template and anything else as a path.
func ParseTemplate(s string) Template {
	if strings.EqualFold(s, "false") {
		return Template{}
	}
	return Template{Path: s}
}

// MarshalYAML implements yaml.Marshaler.
func (t Template) MarshalYAML() (any, error) {
	if t.Path == "" {
		return false, nil
	}
	return t.Path, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	switch node.ShortTag() {
	case "!!bool":
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return err
		}
		if enabled {
			return errors.Wrap(ErrInvalidValue, "template must be false or a file path")
		}
		*t = Template{}
		return nil
	case "!!str":
		if node.Value == "" {
			return errors.Wrap(ErrInvalidValue, "template path is empty")
		}
		*t = Template{Path: node.Value}
		return nil
	default:
		return errors.Wrapf(ErrInvalidValue, "template must be false or a file path, got %s", describe(node))
	}
}

func joinNames[T ~string](names []T) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
