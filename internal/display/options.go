package display

import (
	"io"

	"github.com/thoreinstein/jrnl/internal/logging"
	"github.com/thoreinstein/jrnl/internal/settings"
)

// defaultWidth is used for "linewrap: auto" when the output is not a terminal.
const defaultWidth = 79

// Options controls how entries are rendered.
type Options struct {
	Format     settings.DisplayFormat
	TimeFormat string
	Colors     settings.Colors
	Highlight  bool
	Indent     rune
	LineWrap   settings.LineWrap
	TagSymbols string

	// Color enables ANSI colors. It is normally set from logging.SupportsColor.
	Color bool
}

// OptionsFor resolves the display options of journal.
func OptionsFor(s *settings.Settings, journal string) (Options, error) {
	var (
		opts Options
		err  error
	)
	if opts.Format, err = s.DisplayFormat(journal); err != nil {
		return Options{}, err
	}
	if opts.TimeFormat, err = s.TimeFormat(journal); err != nil {
		return Options{}, err
	}
	if opts.Colors, err = s.Colors(journal); err != nil {
		return Options{}, err
	}
	if opts.Highlight, err = s.Highlight(journal); err != nil {
		return Options{}, err
	}
	if opts.Indent, err = s.IndentCharacter(journal); err != nil {
		return Options{}, err
	}
	if opts.LineWrap, err = s.LineWrap(journal); err != nil {
		return Options{}, err
	}
	if opts.TagSymbols, err = s.TagSymbols(journal); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// width returns the wrap column for out, or 0 for no wrapping.
func (o Options) width(out io.Writer) int {
	if !o.LineWrap.Auto {
		return o.LineWrap.Columns
	}
	if w, ok := logging.TerminalWidth(out); ok {
		return w
	}
	return defaultWidth
}
