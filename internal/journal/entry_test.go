package journal

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jrnl/internal/logging"
)

func testParser(t *testing.T) *Parser {
	t.Helper()
	p := NewParser("%F %r", "#@")
	p.Logger = logging.ForTest(t)
	return p
}

func TestParseEntry(t *testing.T) {
	lines := []string{
		"[2023-01-12 08:51:57 AM] Test entry.",
		"This is a test entry",
	}

	got, err := testParser(t).ParseEntry(lines)
	require.NoError(t, err)
	assert.Equal(t, Entry{
		Time:  time.Date(2023, 1, 12, 8, 51, 57, 0, time.UTC),
		Title: "Test entry.",
		Body:  "This is a test entry",
	}, got)
}

func TestParseEntry_TagsAndStar(t *testing.T) {
	lines := []string{
		"  [2023-01-12 09:00:00 PM] Big news *",
		"",
		"Met @alice about #work and more #work.",
		"email: bob@example.com",
		"",
	}

	got, err := testParser(t).ParseEntry(lines)
	require.NoError(t, err)
	assert.True(t, got.Starred)
	assert.Equal(t, 21, got.Time.Hour())
	assert.Equal(t, []string{"@alice", "#work", "#work."}, got.Tags)
	assert.Equal(t, "Met @alice about #work and more #work.\nemail: bob@example.com", got.Body)
}

func TestParseEntry_CustomTagSymbols(t *testing.T) {
	p := NewParser("%F %r", "+")
	got, err := p.ParseEntry([]string{"[2023-01-12 08:00:00 AM] t", "+plus #hash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"+plus"}, got.Tags)
}

func TestParseEntry_CustomTimeFormat(t *testing.T) {
	p := NewParser("%Y/%m/%d %H:%M", "")
	got, err := p.ParseEntry([]string{"[2024/02/29 23:05] Leap"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 5, 0, 0, time.UTC), got.Time)
	assert.Empty(t, got.Body)
	assert.Nil(t, got.Tags)
}

func TestParseEntry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr error
	}{
		{"no lines", nil, ErrEmptyEntry},
		{"no brackets", []string{"2023-01-12 08:51:57 AM Test"}, ErrInvalidTitleLine},
		{"empty brackets", []string{"[] Test"}, ErrInvalidTitleLine},
		{"bad time", []string{"[yesterday] Test"}, ErrInvalidTime},
		{"wrong format", []string{"[2023-01-12 20:51] Test"}, ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testParser(t).ParseEntry(tt.lines)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse(t *testing.T) {
	text := `[2023-01-12 08:51:57 AM] First.
Body one #a

[2023-01-10 10:00:00 AM] Second.
[not a time] Dropped.
with its body
[2023-01-11 11:00:00 PM] Third.
`
	entries := slices.Collect(testParser(t).Parse(Lines(text)))
	require.Len(t, entries, 3)
	assert.Equal(t, "First.", entries[0].Title)
	assert.Equal(t, "Body one #a", entries[0].Body)
	assert.Equal(t, []string{"#a"}, entries[0].Tags)
	assert.Equal(t, "Second.", entries[1].Title)
	assert.Empty(t, entries[1].Body)
	assert.Equal(t, "Third.", entries[2].Title)
}

func TestParse_LeadingJunk(t *testing.T) {
	entries := slices.Collect(testParser(t).Parse(Lines("not a title\nstill not\n")))
	assert.Empty(t, entries)

	entries = slices.Collect(testParser(t).Parse(Lines("junk\n[2023-01-12 08:51:57 AM] Kept.\n")))
	require.Len(t, entries, 1)
	assert.Equal(t, "Kept.", entries[0].Title)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, slices.Collect(testParser(t).Parse(Lines(""))))
}

func TestParse_StopsEarly(t *testing.T) {
	text := "[2023-01-12 08:00:00 AM] a\n[2023-01-12 09:00:00 AM] b\n[2023-01-12 10:00:00 AM] c\n"

	pulled := 0
	lines := func(yield func(string) bool) {
		for line := range Lines(text) {
			pulled++
			if !yield(line) {
				return
			}
		}
	}

	for e := range testParser(t).Parse(lines) {
		assert.Equal(t, "a", e.Title)
		break
	}
	assert.Equal(t, 2, pulled, "parsing should stop once the consumer does")
}

func TestParse_CRLF(t *testing.T) {
	entries := slices.Collect(testParser(t).Parse(Lines("[2023-01-12 08:51:57 AM] Title\r\nbody\r\n")))
	require.Len(t, entries, 1)
	assert.Equal(t, "Title", entries[0].Title)
	assert.Equal(t, "body", entries[0].Body)
}

func TestFormat_RoundTrip(t *testing.T) {
	p := testParser(t)
	e := Entry{
		Time:  time.Date(2023, 1, 12, 20, 51, 57, 0, time.UTC),
		Title: "Evening.",
		Body:  "Dinner with @carol #food",
		Tags:  []string{"@carol", "#food"},
	}

	text := p.Format(e)
	assert.Equal(t, "[2023-01-12 08:51:57 PM] Evening.\nDinner with @carol #food\n\n", text)

	entries := slices.Collect(p.Parse(Lines(text)))
	require.Len(t, entries, 1)
	assert.Equal(t, e, entries[0])
}

func TestIsTitleLine(t *testing.T) {
	assert.True(t, IsTitleLine("[x] y"))
	assert.True(t, IsTitleLine("\t[2023-01-12] y"))
	assert.False(t, IsTitleLine("x [y]"))
	assert.False(t, IsTitleLine(""))
}
