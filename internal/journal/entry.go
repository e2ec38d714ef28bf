package journal

import (
	"context"
	"iter"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/ncruces/go-strftime"

	"github.com/thoreinstein/jrnl/internal/logging"
)

// Sentinel errors for entry parsing.
var (
	// ErrEmptyEntry indicates a record with no lines.
	ErrEmptyEntry = errors.New("empty entry")

	// ErrInvalidTitleLine indicates a record whose first line is not a
	// bracketed-timestamp title line.
	ErrInvalidTitleLine = errors.New("invalid title line")

	// ErrInvalidTime indicates a title timestamp that does not match the
	// time format.
	ErrInvalidTime = errors.New("invalid entry time")
)

const (
	// DefaultTimeFormat is used when a Parser has no time format.
	DefaultTimeFormat = "%F %r"

	// DefaultTagSymbols is used when a Parser has no tag symbols.
	DefaultTagSymbols = "#@"
)

var titlePattern = regexp.MustCompile(`^[[:blank:]]*\[(?P<time>[^\]]+)\]\s*(?P<title>.*)$`)

// Entry is one dated journal record.
type Entry struct {
	Time    time.Time
	Title   string
	Body    string
	Tags    []string // Body tokens starting with a tag symbol, in order, duplicates kept
	Starred bool
}

// Parser reads and writes entries for one journal.
type Parser struct {
	// TimeFormat is the strftime layout of title timestamps.
	TimeFormat string

	// TagSymbols lists the characters that start a tag.
	TagSymbols string

	Logger *slog.Logger
}

// NewParser returns a Parser for the given time format and tag symbols.
func NewParser(timeFormat, tagSymbols string) *Parser {
	return &Parser{TimeFormat: timeFormat, TagSymbols: tagSymbols}
}

func (p *Parser) timeFormat() string {
	if p.TimeFormat == "" {
		return DefaultTimeFormat
	}
	return p.TimeFormat
}

func (p *Parser) tagSymbols() string {
	if p.TagSymbols == "" {
		return DefaultTagSymbols
	}
	return p.TagSymbols
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger == nil {
		return logging.NewDiscard()
	}
	return p.Logger
}

// IsTitleLine reports whether line starts a record.
func IsTitleLine(line string) bool {
	return titlePattern.MatchString(line)
}

// ParseEntry parses one record: a title line followed by body lines.
func (p *Parser) ParseEntry(lines []string) (Entry, error) {
	if len(lines) == 0 {
		return Entry{}, ErrEmptyEntry
	}

	m := titlePattern.FindStringSubmatch(lines[0])
	if m == nil {
		return Entry{}, errors.Wrapf(ErrInvalidTitleLine, "%q", lines[0])
	}
	stamp := m[titlePattern.SubexpIndex("time")]
	title := m[titlePattern.SubexpIndex("title")]

	at, err := strftime.Parse(p.timeFormat(), stamp)
	if err != nil {
		return Entry{}, errors.Wrapf(ErrInvalidTime, "%q does not match %q: %v", stamp, p.timeFormat(), err)
	}

	body := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	return Entry{
		Time:    at,
		Title:   title,
		Body:    body,
		Tags:    p.Tags(body),
		Starred: strings.Contains(title, "*"),
	}, nil
}

// Tags returns the whitespace-separated tokens of text that start with a tag symbol.
func (p *Parser) Tags(text string) []string {
	symbols := p.tagSymbols()
	var tags []string
	for _, word := range strings.Fields(text) {
		r, _ := utf8.DecodeRuneInString(word)
		if strings.ContainsRune(symbols, r) {
			tags = append(tags, word)
		}
	}
	return tags
}

// Parse groups lines into records and yields each record that parses. The
// sequence is lazy and makes a single pass over lines. Records that fail to
// parse are skipped.
func (p *Parser) Parse(lines iter.Seq[string]) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		logger := p.logger()
		var record []string
		flush := func() bool {
			if len(record) == 0 {
				return true
			}
			e, err := p.ParseEntry(record)
			first := record[0]
			record = nil
			if err != nil {
				logger.Log(context.Background(), logging.LevelTrace, "skipping record", "line", first, "error", err)
				return true
			}
			return yield(e)
		}

		for line := range lines {
			if IsTitleLine(line) && !flush() {
				return
			}
			record = append(record, line)
		}
		flush()
	}
}

// Lines splits text into lines without their line endings.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}
		for line := range strings.SplitSeq(strings.TrimSuffix(text, "\n"), "\n") {
			if !yield(strings.TrimSuffix(line, "\r")) {
				return
			}
		}
	}
}

// Format renders e as it is stored in a journal file, followed by a blank line.
func (p *Parser) Format(e Entry) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(strftime.Format(p.timeFormat(), e.Time))
	b.WriteString("] ")
	b.WriteString(e.Title)
	b.WriteString("\n")
	if e.Body != "" {
		b.WriteString(e.Body)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
