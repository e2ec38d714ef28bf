package settings

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `colors:
  body: none
  date: black
  tags: yellow
  title: cyan
default_hour: 9
default_minute: 0
editor: vim
encrypt: false
highlight: true
indent_character: '|'
journals:
  default:
    journal: /path/to/journal.txt
  food: ~/my_recipes.txt
  work:
    encrypt: true
    journal: ~/work.txt
linewrap: 79
tagsymbols: '%#@'
template: false
timeformat: '%F %r'
version: v4.1
`

func TestParse_Sample(t *testing.T) {
	s, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "v4.1", s.Version)
	assert.Equal(t, "vim", *s.Config.Editor)
	assert.Equal(t, '|', *s.Config.IndentCharacter)
	assert.Equal(t, LineWrap{Columns: 79}, *s.Config.LineWrap)
	assert.Equal(t, Template{}, *s.Config.Template)
	assert.Equal(t, ColorCyan, *s.Config.Colors.Title)

	journals, ok := s.Config.Journals.(*JournalMap)
	require.True(t, ok, "journals should decode as a table, got %T", s.Config.Journals)
	assert.Equal(t, []string{"default", "food", "work"}, journals.Names())

	food, _ := journals.Get("food")
	assert.Equal(t, StandardJournal{Path: "~/my_recipes.txt"}, food)

	work, _ := journals.Get("work")
	override, ok := work.(OverrideJournal)
	require.True(t, ok, "work should decode as an override, got %T", work)
	assert.Equal(t, JournalPath("~/work.txt"), override.Config.Journals)
	assert.True(t, *override.Config.Encrypt)
}

func TestMarshal_RoundTrip(t *testing.T) {
	s, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	out, err := Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(out))
}

func TestMarshal_DefaultRoundTrip(t *testing.T) {
	s := Default("/data/jrnl/journal.txt")

	first, err := Marshal(s)
	require.NoError(t, err)

	parsed, err := Parse(first)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, parsed.Version)

	second, err := Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	path, err := parsed.JournalFile(DefaultJournalName)
	require.NoError(t, err)
	assert.Equal(t, "/data/jrnl/journal.txt", path)
}

func TestMarshal_OmitsAbsentFields(t *testing.T) {
	s := &Settings{Config: CommonConfig{Encrypt: ptr(true)}}

	out, err := Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "encrypt: true\n", string(out))
}

func TestParse_Empty(t *testing.T) {
	for _, doc := range []string{"", "\n", "~\n", "# only a comment\n"} {
		s, err := Parse([]byte(doc))
		require.NoError(t, err, "document %q", doc)
		assert.Equal(t, &Settings{}, s)
	}
}

func TestParse_NullMeansAbsent(t *testing.T) {
	s, err := Parse([]byte("editor: ~\nencrypt: true\n"))
	require.NoError(t, err)
	assert.Nil(t, s.Config.Editor)
	assert.True(t, *s.Config.Encrypt)
}

func TestParse_DisplayFormatAliases(t *testing.T) {
	tests := map[string]DisplayFormat{
		"md":     DisplayMarkdown,
		"txt":    DisplayText,
		"yml":    DisplayYAML,
		"JSON":   DisplayJSON,
		"pretty": DisplayPretty,
	}
	for in, want := range tests {
		s, err := Parse([]byte("display_format: " + in + "\n"))
		require.NoError(t, err, "display_format %q", in)
		assert.Equal(t, want, *s.Config.DisplayFormat)
	}
}

func TestParse_LineWrapAuto(t *testing.T) {
	s, err := Parse([]byte("linewrap: auto\n"))
	require.NoError(t, err)
	assert.Equal(t, LineWrap{Auto: true}, *s.Config.LineWrap)

	out, err := Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "linewrap: auto\n", string(out))
}

func TestParse_TemplatePath(t *testing.T) {
	s, err := Parse([]byte("template: ~/templates/daily.txt\n"))
	require.NoError(t, err)
	assert.True(t, s.Config.Template.Enabled())
	assert.Equal(t, "~/templates/daily.txt", s.Config.Template.Path)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantKey string
		wantErr error
	}{
		{
			name:    "unknown root key",
			doc:     "editer: vim\n",
			wantKey: "editer",
			wantErr: ErrUnknownKey,
		},
		{
			name:    "unknown color part",
			doc:     "colors:\n  border: red\n",
			wantKey: "colors.border",
			wantErr: ErrUnknownKey,
		},
		{
			name:    "unknown color name",
			doc:     "colors:\n  body: purple\n",
			wantKey: "colors.body",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "duplicate key",
			doc:     "editor: vim\neditor: nano\n",
			wantKey: "editor",
			wantErr: ErrDuplicateKey,
		},
		{
			name:    "unknown key inside override",
			doc:     "journals:\n  work:\n    journal: ~/work.txt\n    colour: red\n",
			wantKey: "journals.work.colour",
			wantErr: ErrUnknownKey,
		},
		{
			name:    "multi-character indent",
			doc:     "indent_character: '->'\n",
			wantKey: "indent_character",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "template true",
			doc:     "template: true\n",
			wantKey: "template",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "hour out of range",
			doc:     "default_hour: 24\n",
			wantKey: "default_hour",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "linewrap word",
			doc:     "linewrap: wide\n",
			wantKey: "linewrap",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "journal entry is a list",
			doc:     "journals:\n  work: [a, b]\n",
			wantKey: "journals.work",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown display format",
			doc:     "display_format: fancy\n",
			wantKey: "display_format",
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)

			var se *SchemaError
			require.True(t, errors.As(err, &se), "expected *SchemaError, got %T: %v", err, err)
			assert.Equal(t, tt.wantKey, se.Key)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_WrongTypes(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantKey string
	}{
		{"int from word", "default_minute: soon\n", "default_minute"},
		{"bool from word", "encrypt: maybe\n", "encrypt"},
		{"table for string", "editor:\n  name: vim\n", "editor"},
		{"journal and journals", "journal: a.txt\njournals:\n  x: b.txt\n", "journals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var se *SchemaError
			require.True(t, errors.As(err, &se), "expected *SchemaError, got %T: %v", err, err)
			assert.Equal(t, tt.wantKey, se.Key)
		})
	}
}

func TestParse_NotAMapping(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, se.Key)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("colors: [unterminated\n"))
	var se *SchemaError
	assert.True(t, errors.As(err, &se), "got %v", err)
}

func TestKeyKind(t *testing.T) {
	tests := []struct {
		key    string
		want   Kind
		wantOK bool
	}{
		{"encrypt", KindBool, true},
		{"default_hour", KindInt, true},
		{"linewrap", KindLineWrap, true},
		{"template", KindTemplate, true},
		{"indent_character", KindChar, true},
		{"editor", KindString, true},
		{"colors", 0, false},
		{"journals", 0, false},
		{"bogus", 0, false},
	}
	for _, tt := range tests {
		got, ok := KeyKind(tt.key)
		assert.Equal(t, tt.wantOK, ok, tt.key)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, tt.key)
		}
	}
}
