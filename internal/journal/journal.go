package journal

import (
	"cmp"
	"io/fs"
	"iter"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/jrnl/pkg/fileutil"
)

// MaxJournalSize is the largest journal file Load will read (64MB).
const MaxJournalSize = 64 << 20

// Journal is a named collection of entries in ascending time order.
type Journal struct {
	Name    string
	Entries []Entry
}

// New collects entries into a journal sorted by time. Entries with equal
// times keep their input order.
func New(name string, entries iter.Seq[Entry]) *Journal {
	j := &Journal{Name: name, Entries: slices.Collect(entries)}
	j.Sort()
	return j
}

// Sort orders entries by ascending time.
func (j *Journal) Sort() {
	slices.SortStableFunc(j.Entries, func(a, b Entry) int {
		return a.Time.Compare(b.Time)
	})
}

// Load reads and parses the journal file at path. A missing file is an
// empty journal.
func Load(name, path string, p *Parser) (*Journal, error) {
	data, err := fileutil.ReadFileLimit(path, MaxJournalSize)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger().Debug("journal file not found", "journal", name, "path", path)
		return &Journal{Name: name}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading journal %s", name)
	}

	j := New(name, p.Parse(Lines(string(data))))
	p.logger().Debug("journal loaded", "journal", name, "path", path, "entries", len(j.Entries))
	return j, nil
}

// Last returns the n most recent entries, or all of them when n <= 0.
func (j *Journal) Last(n int) []Entry {
	if n <= 0 || n >= len(j.Entries) {
		return j.Entries
	}
	return j.Entries[len(j.Entries)-n:]
}

// Starred returns the starred entries.
func (j *Journal) Starred() []Entry {
	var out []Entry
	for _, e := range j.Entries {
		if e.Starred {
			out = append(out, e)
		}
	}
	return out
}

// TagCount is the number of entries a tag appears in.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts counts how many of entries mention each tag, most frequent first.
func TagCounts(entries []Entry) []TagCount {
	counts := make(map[string]int)
	for _, e := range entries {
		seen := make(map[string]bool, len(e.Tags))
		for _, tag := range e.Tags {
			if !seen[tag] {
				seen[tag] = true
				counts[tag]++
			}
		}
	}

	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}
