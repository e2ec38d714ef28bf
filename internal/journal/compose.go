package journal

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/jrnl/internal/paths"
	"github.com/thoreinstein/jrnl/pkg/fileutil"
)

// datePrefix matches entry text that starts with an explicit date, as in
// "2024-03-01: Started the new job."
var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}):(?:\s+|$)`)

// sentenceEnd finds the end of the first sentence.
var sentenceEnd = regexp.MustCompile(`[.?!]\s`)

// Compose builds an entry from text typed on the command line. Text that
// starts with a date prefix is dated at hour:minute on that day; any other
// text is dated now. The title is the first sentence and the rest is the body.
func (p *Parser) Compose(text string, now time.Time, hour, minute int) (Entry, error) {
	text = strings.TrimSpace(text)
	at := now.Truncate(time.Second)

	if m := datePrefix.FindStringSubmatch(text); m != nil {
		day, err := time.ParseInLocation(time.DateOnly, m[1], now.Location())
		if err != nil {
			return Entry{}, errors.Wrapf(ErrInvalidTime, "%q: %v", m[1], err)
		}
		at = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		text = text[len(m[0]):]
	}
	if text == "" {
		return Entry{}, ErrEmptyEntry
	}

	title, body := text, ""
	if loc := sentenceEnd.FindStringIndex(text); loc != nil {
		title = text[:loc[0]+1]
		body = strings.TrimSpace(text[loc[1]:])
	}

	return Entry{
		Time:    at,
		Title:   title,
		Body:    body,
		Tags:    p.Tags(body),
		Starred: strings.Contains(title, "*"),
	}, nil
}

// Append writes e to the end of the journal file at path, creating the file
// and its parent directories when needed.
func (p *Parser) Append(path string, e Entry) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating journal directory")
	}

	record := p.Format(e)
	if needsSeparator(path) {
		record = "\n" + record
	}
	if err := fileutil.AppendFile(path, []byte(record), 0o600); err != nil {
		return errors.Wrapf(err, "appending to %s", path)
	}
	p.logger().Debug("entry appended", "path", path, "title", e.Title)
	return nil
}

// needsSeparator reports whether the file at path is non-empty and does not
// end with a newline.
func needsSeparator(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return false
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false
	}
	return last[0] != '\n'
}
