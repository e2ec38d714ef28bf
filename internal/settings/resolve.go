package settings

import (
	"github.com/cockroachdb/errors"
)

// journalScope returns the configuration consulted before the root for the
// named journal: the override for an OverrideJournal, or the root itself for
// a StandardJournal.
func (s *Settings) journalScope(name string) (*CommonConfig, error) {
	switch jc := s.Config.Journals.(type) {
	case nil:
		return nil, errors.WithHint(
			errors.Wrapf(ErrMissingJournalConfig, "journal %q: no journals configured", name),
			"add a 'journals' table to your config file",
		)
	case JournalPath:
		return nil, errors.WithHint(
			errors.Wrap(ErrTopLevelJournalConfig, "the config file root must use 'journals', not 'journal'"),
			"move the path under a journals table, for example: journals: {default: "+string(jc)+"}",
		)
	case *JournalMap:
		cfg, ok := jc.Get(name)
		if !ok {
			return nil, errors.WithHintf(
				errors.Wrapf(ErrMissingJournalConfig, "journal %q", name),
				"configured journals: %v", jc.Names(),
			)
		}
		switch cfg := cfg.(type) {
		case StandardJournal:
			return &s.Config, nil
		case OverrideJournal:
			if _, ok := cfg.Config.Journals.(JournalPath); !ok {
				return nil, errors.WithHint(
					errors.Wrapf(ErrInvalidJrnlOverrideConfig, "journal %q: override must set exactly one 'journal' path", name),
					"replace the nested 'journals' table with 'journal: <path>'",
				)
			}
			return &cfg.Config, nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidJrnlOverrideConfig, "journal %q: unsupported configuration", name)
}

// firstPresent returns the first non-nil value.
func firstPresent[T any](candidates ...*T) (T, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	var zero T
	return zero, false
}

// lookup resolves one setting for a journal: the journal scope first, then
// the document root, then the built-in defaults.
func lookup[T any](s *Settings, journal, key string, get func(*CommonConfig) *T) (T, error) {
	var zero T
	scope, err := s.journalScope(journal)
	if err != nil {
		return zero, err
	}
	defaults := Defaults()
	v, ok := firstPresent(get(scope), get(&s.Config), get(&defaults))
	if !ok {
		return zero, errors.WithHintf(
			errors.Wrapf(ErrInvalidJrnlOverrideConfig, "journal %q: %s is not set", journal, key),
			"set '%s' in your config file or pass --config-override %s <value>", key, key,
		)
	}
	return v, nil
}

// JournalNames returns the configured journal names in document order.
func (s *Settings) JournalNames() []string {
	if m, ok := s.Config.Journals.(*JournalMap); ok {
		return m.Names()
	}
	return nil
}

// HasJournal reports whether name is a configured journal.
func (s *Settings) HasJournal(name string) bool {
	m, ok := s.Config.Journals.(*JournalMap)
	if !ok {
		return false
	}
	_, found := m.Get(name)
	return found
}

// JournalFile returns the path of the named journal's file, exactly as written.
func (s *Settings) JournalFile(journal string) (string, error) {
	if _, err := s.journalScope(journal); err != nil {
		return "", err
	}
	cfg, _ := s.Config.Journals.(*JournalMap).Get(journal)
	switch cfg := cfg.(type) {
	case StandardJournal:
		return cfg.Path, nil
	case OverrideJournal:
		return string(cfg.Config.Journals.(JournalPath)), nil
	}
	return "", errors.Wrapf(ErrInvalidJrnlOverrideConfig, "journal %q: unsupported configuration", journal)
}

// Colors resolves each part of the color table independently.
func (s *Settings) Colors(journal string) (Colors, error) {
	scope, err := s.journalScope(journal)
	if err != nil {
		return Colors{}, err
	}
	defaults := Defaults()
	var out Colors
	for _, part := range colorParts() {
		pick := func(c *CommonConfig) *TextColor {
			if c.Colors == nil {
				return nil
			}
			return *part.ref(c.Colors)
		}
		v, ok := firstPresent(pick(scope), pick(&s.Config), pick(&defaults))
		if !ok {
			return Colors{}, errors.Wrapf(ErrInvalidJrnlOverrideConfig, "journal %q: colors.%s is not set", journal, part.key)
		}
		*part.resolved(&out) = v
	}
	return out, nil
}

func (s *Settings) DefaultHour(journal string) (int, error) {
	return lookup(s, journal, "default_hour", func(c *CommonConfig) *int { return c.DefaultHour })
}

func (s *Settings) DefaultMinute(journal string) (int, error) {
	return lookup(s, journal, "default_minute", func(c *CommonConfig) *int { return c.DefaultMinute })
}

func (s *Settings) DisplayFormat(journal string) (DisplayFormat, error) {
	return lookup(s, journal, "display_format", func(c *CommonConfig) *DisplayFormat { return c.DisplayFormat })
}

// Editor returns the editor command. There is no built-in default.
func (s *Settings) Editor(journal string) (string, error) {
	return lookup(s, journal, "editor", func(c *CommonConfig) *string { return c.Editor })
}

func (s *Settings) Encrypt(journal string) (bool, error) {
	return lookup(s, journal, "encrypt", func(c *CommonConfig) *bool { return c.Encrypt })
}

func (s *Settings) Highlight(journal string) (bool, error) {
	return lookup(s, journal, "highlight", func(c *CommonConfig) *bool { return c.Highlight })
}

func (s *Settings) IndentCharacter(journal string) (rune, error) {
	return lookup(s, journal, "indent_character", func(c *CommonConfig) *rune { return c.IndentCharacter })
}

func (s *Settings) LineWrap(journal string) (LineWrap, error) {
	return lookup(s, journal, "linewrap", func(c *CommonConfig) *LineWrap { return c.LineWrap })
}

func (s *Settings) TagSymbols(journal string) (string, error) {
	return lookup(s, journal, "tagsymbols", func(c *CommonConfig) *string { return c.TagSymbols })
}

func (s *Settings) Template(journal string) (Template, error) {
	return lookup(s, journal, "template", func(c *CommonConfig) *Template { return c.Template })
}

// TimeFormat returns the strftime layout used for entry timestamps.
func (s *Settings) TimeFormat(journal string) (string, error) {
	return lookup(s, journal, "timeformat", func(c *CommonConfig) *string { return c.TimeFormat })
}
