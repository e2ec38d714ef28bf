package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/jrnl/internal/journal"
	"github.com/thoreinstein/jrnl/internal/settings"
)

func testOptions(format settings.DisplayFormat) Options {
	return Options{
		Format:     format,
		TimeFormat: "%F %H:%M",
		Colors: settings.Colors{
			Body:  settings.ColorNone,
			Date:  settings.ColorBlack,
			Tags:  settings.ColorYellow,
			Title: settings.ColorCyan,
		},
		Highlight:  true,
		Indent:     '|',
		LineWrap:   settings.LineWrap{Columns: 79},
		TagSymbols: "#@",
	}
}

func testEntries() []journal.Entry {
	return []journal.Entry{
		{
			Time:  time.Date(2023, 1, 12, 8, 51, 0, 0, time.UTC),
			Title: "Test entry.",
			Body:  "This is a test entry about #work",
			Tags:  []string{"#work"},
		},
		{
			Time:    time.Date(2023, 2, 1, 20, 0, 0, 0, time.UTC),
			Title:   "Starred *",
			Starred: true,
		},
	}
}

func render(t *testing.T, opts Options, entries []journal.Entry) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, opts).Report(entries))
	return buf.String()
}

func TestReport_Text(t *testing.T) {
	got := render(t, testOptions(settings.DisplayText), testEntries())
	want := "2023-01-12 08:51 Test entry.\n" +
		"| This is a test entry about #work\n" +
		"\n" +
		"2023-02-01 20:00 Starred *\n"
	assert.Equal(t, want, got)
}

func TestReport_TextWraps(t *testing.T) {
	opts := testOptions(settings.DisplayPretty)
	opts.LineWrap = settings.LineWrap{Columns: 14}
	opts.Indent = '>'

	entries := []journal.Entry{{
		Time:  time.Date(2023, 1, 12, 8, 51, 0, 0, time.UTC),
		Title: "t",
		Body:  "one two three four\n\nfive",
	}}
	got := render(t, opts, entries)
	assert.Equal(t, "2023-01-12 08:51 t\n> one two\n> three four\n>\n> five\n", got)
}

func TestReport_TextNoWrap(t *testing.T) {
	opts := testOptions(settings.DisplayText)
	opts.LineWrap = settings.LineWrap{Columns: 0}
	body := strings.Repeat("word ", 40)

	got := render(t, opts, []journal.Entry{{Title: "t", Body: strings.TrimSpace(body)}})
	assert.Equal(t, 2, strings.Count(got, "\n"), "body should stay on one line")
}

func TestReport_Colors(t *testing.T) {
	opts := testOptions(settings.DisplayShort)
	opts.Color = true

	got := render(t, opts, testEntries()[:1])
	assert.Contains(t, got, "\x1b[36mTest\x1b[0m", "title should be cyan")
	assert.Contains(t, got, "\x1b[30m2023-01-12 08:51\x1b[0m", "date should be black")

	opts.Format = settings.DisplayText
	got = render(t, opts, testEntries()[:1])
	assert.Contains(t, got, "\x1b[33m#work\x1b[0m", "tags should be yellow")
	assert.Contains(t, got, "| This ", "body color none leaves text plain")
}

func TestReport_NoHighlight(t *testing.T) {
	opts := testOptions(settings.DisplayText)
	opts.Color = true
	opts.Highlight = false
	opts.Colors.Body = settings.ColorNone

	got := render(t, opts, testEntries()[:1])
	assert.NotContains(t, got, "\x1b[33m")
}

func TestReport_Short(t *testing.T) {
	got := render(t, testOptions(settings.DisplayShort), testEntries())
	assert.Equal(t, "2023-01-12 08:51 Test entry.\n2023-02-01 20:00 Starred *\n", got)
}

func TestReport_JSON(t *testing.T) {
	got := render(t, testOptions(settings.DisplayJSON), testEntries())

	var decoded exported
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, map[string]int{"#work": 1}, decoded.Tags)
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "2023-01-12", decoded.Entries[0].Date)
	assert.Equal(t, "08:51", decoded.Entries[0].Time)
	assert.Equal(t, []string{}, decoded.Entries[1].Tags)
	assert.True(t, decoded.Entries[1].Starred)
}

func TestReport_YAML(t *testing.T) {
	got := render(t, testOptions(settings.DisplayYAML), testEntries())

	var decoded exported
	require.NoError(t, yaml.Unmarshal([]byte(got), &decoded))
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "Test entry.", decoded.Entries[0].Title)
	assert.Equal(t, 1, decoded.Tags["#work"])
}

func TestReport_Markdown(t *testing.T) {
	got := render(t, testOptions(settings.DisplayMarkdown), testEntries())
	want := "# 2023\n\n" +
		"## January\n\n" +
		"### 2023-01-12 08:51 Test entry.\n\n" +
		"This is a test entry about #work\n\n" +
		"## February\n\n" +
		"### 2023-02-01 20:00 Starred *\n\n"
	assert.Equal(t, want, got)
}

func TestReport_Tags(t *testing.T) {
	got := render(t, testOptions(settings.DisplayTags), testEntries())
	assert.Equal(t, "#work                : 1\n", got)

	got = render(t, testOptions(settings.DisplayTags), nil)
	assert.Equal(t, "[No tags found in journal.]\n", got)
}

func TestReport_Dates(t *testing.T) {
	entries := append(testEntries(), journal.Entry{Time: time.Date(2023, 1, 12, 22, 0, 0, 0, time.UTC)})
	got := render(t, testOptions(settings.DisplayDates), entries)
	assert.Equal(t, "2023-01-12, 2\n2023-02-01, 1\n", got)
}

func TestReport_Unsupported(t *testing.T) {
	for _, f := range []settings.DisplayFormat{settings.DisplayBoxed, settings.DisplayXML} {
		var buf bytes.Buffer
		err := NewReporter(&buf, testOptions(f)).Report(testEntries())
		assert.ErrorIs(t, err, ErrUnsupportedFormat, string(f))
	}
}

func TestOptionsFor(t *testing.T) {
	s, err := settings.Parse([]byte(`colors:
  title: red
journals:
  default: j.txt
  work:
    journal: w.txt
    indent_character: '>'
    linewrap: auto
`))
	require.NoError(t, err)

	opts, err := OptionsFor(s, "work")
	require.NoError(t, err)
	assert.Equal(t, '>', opts.Indent)
	assert.True(t, opts.LineWrap.Auto)
	assert.Equal(t, settings.ColorRed, opts.Colors.Title)
	assert.Equal(t, settings.DisplayText, opts.Format)
	assert.Equal(t, "#@", opts.TagSymbols)

	// Auto width falls back when the output is not a terminal.
	assert.Equal(t, defaultWidth, opts.width(&bytes.Buffer{}))

	_, err = OptionsFor(s, "missing")
	assert.ErrorIs(t, err, settings.ErrMissingJournalConfig)
}
