package commands

import (
	"fmt"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/jrnl/internal/errors"
	"github.com/thoreinstein/jrnl/internal/settings"
)

var settingsPathOnly bool

var settingsCmd = &cobra.Command{
	Use:   "settings [journal]",
	Short: "Show the effective settings of a journal",
	Long: `Show every setting as jrnl resolves it for one journal.

Each value comes from the journal's own table when it sets the key, then
from the top level of the settings file, then from the built-in default.
Config overrides given on the command line are applied first.`,
	Example: `  # Effective settings of the default journal
  jrnl settings

  # Effective settings of the work journal, with an override
  jrnl --config-override linewrap=100 settings work

  # Print the settings file location
  jrnl settings --path

See Also: jrnl list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsPathOnly, "path", false, "print the settings file path and exit")
	rootCmd.AddCommand(settingsCmd)
}

// settingRow renders one resolved value.
type settingRow struct {
	key     string
	resolve func(s *settings.Settings, journal string) (string, error)
}

func settingRows() []settingRow {
	return []settingRow{
		{"journal", func(s *settings.Settings, j string) (string, error) {
			return s.JournalFile(j)
		}},
		{"colors", func(s *settings.Settings, j string) (string, error) {
			c, err := s.Colors(j)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("body=%s date=%s tags=%s title=%s", c.Body, c.Date, c.Tags, c.Title), nil
		}},
		{"default_hour", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.DefaultHour(j))
		}},
		{"default_minute", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.DefaultMinute(j))
		}},
		{"display_format", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.DisplayFormat(j))
		}},
		{"editor", func(s *settings.Settings, j string) (string, error) {
			v, err := s.Editor(j)
			if errors.Is(err, settings.ErrInvalidJrnlOverrideConfig) {
				return "(not set)", nil
			}
			return v, err
		}},
		{"encrypt", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.Encrypt(j))
		}},
		{"highlight", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.Highlight(j))
		}},
		{"indent_character", func(s *settings.Settings, j string) (string, error) {
			r, err := s.IndentCharacter(j)
			return strconv.QuoteRune(r), err
		}},
		{"linewrap", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.LineWrap(j))
		}},
		{"tagsymbols", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.TagSymbols(j))
		}},
		{"template", func(s *settings.Settings, j string) (string, error) {
			t, err := s.Template(j)
			if err != nil || !t.Enabled() {
				return "false", err
			}
			return t.Path, nil
		}},
		{"timeformat", func(s *settings.Settings, j string) (string, error) {
			return stringify(s.TimeFormat(j))
		}},
	}
}

func stringify[T any](v T, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func runSettings(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if settingsPathOnly {
		fmt.Fprintln(out, options.ConfigFile)
		return nil
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	name := settings.DefaultJournalName
	if len(args) == 1 {
		name = args[0]
	}

	table := uitable.New()
	table.AddRow("KEY", "VALUE")
	for _, row := range settingRows() {
		v, err := row.resolve(s, name)
		if err != nil {
			return settingsError(err)
		}
		table.AddRow(row.key, v)
	}
	fmt.Fprintln(out, table)
	return nil
}
