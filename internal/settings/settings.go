package settings

import (
	"iter"
	"slices"
)

// SchemaVersion is recorded in documents written by this program.
const SchemaVersion = "v1"

// Settings is a whole settings document: a schema version plus the root
// CommonConfig.
type Settings struct {
	Version string
	Config  CommonConfig
}

// CommonConfig holds the settings that may appear at the document root or
// inside a per-journal override. A nil field is absent and inherits from the
// next scope outward.
type CommonConfig struct {
	Colors          *ColorConfig
	DefaultHour     *int
	DefaultMinute   *int
	DisplayFormat   *DisplayFormat
	Editor          *string
	Encrypt         *bool
	Highlight       *bool
	IndentCharacter *rune
	Journals        JournalConfigs
	LineWrap        *LineWrap
	TagSymbols      *string
	Template        *Template
	TimeFormat      *string
}

// JournalConfig is one journal's entry in the journals table: either a bare
// path (StandardJournal) or a nested override (OverrideJournal).
type JournalConfig interface {
	isJournalConfig()
}

// StandardJournal is a journal configured only by its file path. It takes
// every other setting from the document root.
type StandardJournal struct {
	Path string
}

// OverrideJournal is a journal with its own settings. Its Journals field must
// be a JournalPath naming the journal's file.
type OverrideJournal struct {
	Config CommonConfig
}

func (StandardJournal) isJournalConfig() {}
func (OverrideJournal) isJournalConfig() {}

// JournalConfigs is the value of the journals setting: either a table of
// named journals (*JournalMap) or a single path (JournalPath).
type JournalConfigs interface {
	isJournalConfigs()
}

// JournalPath names a single journal file. It is written under the key
// "journal" and is only legal inside an override.
type JournalPath string

func (JournalPath) isJournalConfigs() {}

// JournalMap is an insertion-ordered table of named journals.
type JournalMap struct {
	names   []string
	entries map[string]JournalConfig
}

func (*JournalMap) isJournalConfigs() {}

// NewJournalMap creates an empty journal table.
func NewJournalMap() *JournalMap {
	return &JournalMap{entries: make(map[string]JournalConfig)}
}

// Set adds or replaces a journal. New names are appended to the order.
func (m *JournalMap) Set(name string, cfg JournalConfig) {
	if m.entries == nil {
		m.entries = make(map[string]JournalConfig)
	}
	if _, ok := m.entries[name]; !ok {
		m.names = append(m.names, name)
	}
	m.entries[name] = cfg
}

// Get returns the named journal's configuration.
func (m *JournalMap) Get(name string) (JournalConfig, bool) {
	if m == nil {
		return nil, false
	}
	cfg, ok := m.entries[name]
	return cfg, ok
}

// Names returns the journal names in document order.
func (m *JournalMap) Names() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.names)
}

// Len returns the number of journals.
func (m *JournalMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// All iterates the journals in document order.
func (m *JournalMap) All() iter.Seq2[string, JournalConfig] {
	return func(yield func(string, JournalConfig) bool) {
		if m == nil {
			return
		}
		for _, name := range m.names {
			if !yield(name, m.entries[name]) {
				return
			}
		}
	}
}
