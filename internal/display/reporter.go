package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/muesli/reflow/wordwrap"
	"github.com/ncruces/go-strftime"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/jrnl/internal/journal"
	"github.com/thoreinstein/jrnl/internal/settings"
)

// ErrUnsupportedFormat indicates a display format that cannot be rendered.
var ErrUnsupportedFormat = errors.New("unsupported display format")

// Reporter writes entries to an output in one display format.
type Reporter struct {
	out  io.Writer
	opts Options

	date, title, body, tag painter
}

// NewReporter creates a Reporter.
func NewReporter(out io.Writer, opts Options) *Reporter {
	return &Reporter{
		out:   out,
		opts:  opts,
		date:  paint(opts.Colors.Date, opts.Color),
		title: paint(opts.Colors.Title, opts.Color),
		body:  paint(opts.Colors.Body, opts.Color),
		tag:   paint(opts.Colors.Tags, opts.Color),
	}
}

// Report writes entries in the reporter's format.
func (r *Reporter) Report(entries []journal.Entry) error {
	switch r.opts.Format {
	case settings.DisplayText, settings.DisplayPretty, "":
		return r.reportText(entries)
	case settings.DisplayShort:
		return r.reportShort(entries)
	case settings.DisplayJSON:
		return r.reportJSON(entries)
	case settings.DisplayYAML:
		return r.reportYAML(entries)
	case settings.DisplayMarkdown:
		return r.reportMarkdown(entries)
	case settings.DisplayTags:
		return r.reportTags(entries)
	case settings.DisplayDates:
		return r.reportDates(entries)
	default:
		return errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%q", r.opts.Format),
			"use one of: text, pretty, short, json, yaml, markdown, tags, dates",
		)
	}
}

func (r *Reporter) stamp(t time.Time) string {
	return strftime.Format(r.opts.TimeFormat, t)
}

func (r *Reporter) header(e journal.Entry) string {
	return r.date(r.stamp(e.Time)) + " " + r.highlight(e.Title, r.title)
}

func (r *Reporter) reportText(entries []journal.Entry) error {
	prefix := string(r.opts.Indent) + " "
	width := r.opts.width(r.out)
	if width > 0 {
		width = max(width-utf8.RuneCountInString(prefix), 1)
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, r.header(e))
		if e.Body == "" {
			continue
		}
		for _, line := range strings.Split(e.Body, "\n") {
			if width > 0 {
				line = wordwrap.String(line, width)
			}
			for _, wrapped := range strings.Split(line, "\n") {
				fmt.Fprintln(r.out, strings.TrimRightFunc(prefix+r.highlight(wrapped, r.body), unicode.IsSpace))
			}
		}
	}
	return nil
}

func (r *Reporter) reportShort(entries []journal.Entry) error {
	for _, e := range entries {
		fmt.Fprintln(r.out, r.header(e))
	}
	return nil
}

// highlight paints tag words with the tag color and the rest with base.
func (r *Reporter) highlight(line string, base painter) string {
	if !r.opts.Highlight {
		return base(line)
	}

	var b strings.Builder
	i := 0
	for i < len(line) {
		j := i
		for j < len(line) && isBlank(line[j]) {
			j++
		}
		b.WriteString(line[i:j])
		i = j
		for j < len(line) && !isBlank(line[j]) {
			j++
		}
		if word := line[i:j]; word != "" {
			if r.isTag(word) {
				b.WriteString(r.tag(word))
			} else {
				b.WriteString(base(word))
			}
		}
		i = j
	}
	return b.String()
}

func (r *Reporter) isTag(word string) bool {
	first, _ := utf8.DecodeRuneInString(word)
	return strings.ContainsRune(r.opts.TagSymbols, first)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// exported is the structured form of a journal used by the json and yaml formats.
type exported struct {
	Tags    map[string]int  `json:"tags" yaml:"tags"`
	Entries []exportedEntry `json:"entries" yaml:"entries"`
}

type exportedEntry struct {
	Title   string   `json:"title" yaml:"title"`
	Body    string   `json:"body" yaml:"body"`
	Date    string   `json:"date" yaml:"date"`
	Time    string   `json:"time" yaml:"time"`
	Tags    []string `json:"tags" yaml:"tags"`
	Starred bool     `json:"starred" yaml:"starred"`
}

func export(entries []journal.Entry) exported {
	out := exported{
		Tags:    make(map[string]int),
		Entries: make([]exportedEntry, 0, len(entries)),
	}
	for _, tc := range journal.TagCounts(entries) {
		out.Tags[tc.Tag] = tc.Count
	}
	for _, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		out.Entries = append(out.Entries, exportedEntry{
			Title:   e.Title,
			Body:    e.Body,
			Date:    e.Time.Format(time.DateOnly),
			Time:    e.Time.Format("15:04"),
			Tags:    tags,
			Starred: e.Starred,
		})
	}
	return out
}

func (r *Reporter) reportJSON(entries []journal.Entry) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(export(entries)), "encoding JSON")
}

func (r *Reporter) reportYAML(entries []journal.Entry) error {
	encoder := yaml.NewEncoder(r.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(export(entries)); err != nil {
		return errors.Wrap(err, "encoding YAML")
	}
	return errors.Wrap(encoder.Close(), "encoding YAML")
}

func (r *Reporter) reportMarkdown(entries []journal.Entry) error {
	year, month := -1, time.Month(0)
	for _, e := range entries {
		if e.Time.Year() != year {
			year, month = e.Time.Year(), 0
			fmt.Fprintf(r.out, "# %d\n\n", year)
		}
		if e.Time.Month() != month {
			month = e.Time.Month()
			fmt.Fprintf(r.out, "## %s\n\n", month)
		}
		fmt.Fprintf(r.out, "### %s %s\n\n", r.stamp(e.Time), e.Title)
		if e.Body != "" {
			fmt.Fprintf(r.out, "%s\n\n", e.Body)
		}
	}
	return nil
}

func (r *Reporter) reportTags(entries []journal.Entry) error {
	counts := journal.TagCounts(entries)
	if len(counts) == 0 {
		fmt.Fprintln(r.out, "[No tags found in journal.]")
		return nil
	}
	for _, tc := range counts {
		fmt.Fprintf(r.out, "%-20s : %d\n", tc.Tag, tc.Count)
	}
	return nil
}

func (r *Reporter) reportDates(entries []journal.Entry) error {
	var (
		days   []string
		counts = make(map[string]int)
	)
	for _, e := range entries {
		day := e.Time.Format(time.DateOnly)
		if counts[day] == 0 {
			days = append(days, day)
		}
		counts[day]++
	}
	for _, day := range days {
		fmt.Fprintf(r.out, "%s, %d\n", day, counts[day])
	}
	return nil
}
