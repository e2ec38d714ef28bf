package settings

// DefaultJournalName is the journal used when none is named.
const DefaultJournalName = "default"

// Defaults returns the built-in fallback for every setting that has one.
// Editor has no built-in value. A fresh value is returned on each call.
func Defaults() CommonConfig {
	return CommonConfig{
		Colors: &ColorConfig{
			Body:  ptr(ColorNone),
			Date:  ptr(ColorBlack),
			Tags:  ptr(ColorYellow),
			Title: ptr(ColorCyan),
		},
		DefaultHour:     ptr(9),
		DefaultMinute:   ptr(0),
		DisplayFormat:   ptr(DisplayText),
		Encrypt:         ptr(false),
		Highlight:       ptr(true),
		IndentCharacter: ptr('|'),
		LineWrap:        &LineWrap{Columns: 79},
		TagSymbols:      ptr("#@"),
		Template:        &Template{},
		TimeFormat:      ptr("%F %r"),
	}
}

// Default returns the document written when no settings file exists: the
// built-in defaults plus a single journal named "default" stored at
// journalPath.
func Default(journalPath string) *Settings {
	cfg := Defaults()
	journals := NewJournalMap()
	journals.Set(DefaultJournalName, OverrideJournal{
		Config: CommonConfig{Journals: JournalPath(journalPath)},
	})
	cfg.Journals = journals
	return &Settings{Version: SchemaVersion, Config: cfg}
}

func ptr[T any](v T) *T {
	return &v
}
