// Package commands implements the CLI commands for jrnl.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/jrnl/cmd"
	"github.com/thoreinstein/jrnl/internal/backup"
	"github.com/thoreinstein/jrnl/internal/config"
	"github.com/thoreinstein/jrnl/internal/display"
	"github.com/thoreinstein/jrnl/internal/editor"
	"github.com/thoreinstein/jrnl/internal/errors"
	"github.com/thoreinstein/jrnl/internal/journal"
	"github.com/thoreinstein/jrnl/internal/logging"
	"github.com/thoreinstein/jrnl/internal/override"
	"github.com/thoreinstein/jrnl/internal/paths"
	"github.com/thoreinstein/jrnl/internal/settings"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// configOverrides holds the raw --config-override values.
var configOverrides []string

// Reading and writing flags of the root command.
var (
	editFlag   bool
	shortFlag  bool
	formatFlag string
	limitFlag  int
)

// options holds the invocation options resolved before each command runs.
var options *config.Options

// now is replaced in tests.
var now = time.Now

func init() {
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	pf.BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	pf.String("log-format", "text",
		"log format: text, json")
	pf.String("log-file", "",
		"write logs to file in JSON format")
	pf.String("config-file", "",
		"settings file (default "+paths.DefaultConfigFile()+")")
	pf.String("backup-dir", "",
		"directory for journal snapshots (default "+filepath.Join(paths.DataDir(), "backups")+")")
	pf.StringArrayVar(&configOverrides, "config-override", nil,
		"override a setting for this run, as KEY=VALUE (repeatable)")

	f := rootCmd.Flags()
	f.BoolVar(&editFlag, "edit", false, "open the journal in the configured editor")
	f.BoolVar(&shortFlag, "short", false, "show only dates and titles")
	f.StringVar(&formatFlag, "format", "", "display format: text, pretty, short, json, yaml, markdown, tags, dates")
	f.IntVarP(&limitFlag, "limit", "n", 0, "show only the last N entries")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("jrnl version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "jrnl [journal] [entry text...]",
	Short: "Collect your thoughts and notes without leaving the command line",
	Long: `jrnl writes and reads plain-text journals.

With entry text, a new entry is appended to the journal. Without it, the
journal's entries are printed. The first word selects a journal when it
names one from the settings file; otherwise it is part of the entry text
and the "default" journal is used.

Settings live in a YAML file that is created on first run. Any setting can
be overridden for a single run with --config-override KEY=VALUE.`,
	Example: `  # Write an entry to the default journal
  jrnl Finished the quarterly report. Long day. @team

  # Write to the work journal, backdated
  jrnl work 2024-03-01: Kickoff meeting.

  # Show the last five entries of the work journal
  jrnl work -n 5

  # Show entries without colors or wrapping
  jrnl --config-override linewrap=0 --config-override color.title=none

See Also: jrnl list, jrnl settings`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadOptions(cmd); err != nil {
			return err
		}
		return setupLogging(cmd)
	},
	RunE: runJournal,
}

// loadOptions resolves the invocation options from flags, environment and defaults.
func loadOptions(cmd *cobra.Command) error {
	v := viper.New()
	config.Init(v)
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return errors.NewSystemError(err, "")
	}
	opts, err := config.Load(v)
	if err != nil {
		return errors.NewUserError(err, "Run 'jrnl --help' to see valid options")
	}
	options = opts
	return nil
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pass only one of -q and -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("JRNL_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(options.LogFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if options.LogFile != "" {
		f, err := os.OpenFile(options.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// loadSettings collects the config overrides and loads the settings file,
// writing a default one first if it does not exist.
func loadSettings(cmd *cobra.Command, extra ...string) (*settings.Settings, error) {
	logger := logging.FromContext(cmd.Context())

	tokens := append(override.Flatten(configOverrides), extra...)
	patch, err := override.Collect(tokens)
	if err != nil {
		return nil, errors.NewUserError(err, overrideSuggestion(err))
	}

	logger.Debug("loading settings", "path", options.ConfigFile, "overrides", patch.Len())
	s, err := settings.NewLoader(logger).LoadOrBootstrap(options.ConfigFile, patch)
	if err != nil {
		return nil, settingsError(err)
	}
	return s, nil
}

func overrideSuggestion(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		return hints[0]
	}
	return "Overrides are written --config-override KEY=VALUE"
}

// settingsError classifies a settings failure as a user or a system error.
func settingsError(err error) error {
	var se *settings.SchemaError
	if errors.As(err, &se) ||
		errors.Is(err, settings.ErrMissingJournalConfig) ||
		errors.Is(err, settings.ErrTopLevelJournalConfig) ||
		errors.Is(err, settings.ErrInvalidJrnlOverrideConfig) {
		return errors.NewConfigError(err)
	}
	return errors.NewSystemError(err, "Check that "+options.ConfigFile+" is readable and its directory is writable")
}

// resolveJournal splits args into a journal name and entry words. When the
// first argument names no configured journal it is treated as entry text
// and the default journal is used.
func resolveJournal(s *settings.Settings, args []string) (string, []string, error) {
	if len(args) > 0 {
		_, err := s.JournalFile(args[0])
		switch {
		case err == nil:
			return args[0], args[1:], nil
		case !errors.Is(err, settings.ErrMissingJournalConfig):
			return "", nil, err
		}
	}
	return settings.DefaultJournalName, args, nil
}

func runJournal(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())

	var extra []string
	if formatFlag != "" {
		extra = append(extra, "display_format", formatFlag)
	}
	s, err := loadSettings(cmd, extra...)
	if err != nil {
		return err
	}

	name, words, err := resolveJournal(s, args)
	if err != nil {
		return settingsError(err)
	}
	path, err := journalPath(s, name)
	if err != nil {
		return err
	}
	logger.Debug("journal resolved", "journal", name, "path", path, "entry_words", len(words))

	encrypted, err := s.Encrypt(name)
	if err != nil {
		return settingsError(err)
	}
	if encrypted {
		return errors.NewUserError(
			errors.Newf("journal %q is encrypted, and encrypted journals are not supported", name),
			"Set 'encrypt: false' for this journal, or pass --config-override encrypt=false",
		)
	}

	parser, err := newParser(s, name, logger)
	if err != nil {
		return settingsError(err)
	}

	switch {
	case editFlag:
		return editJournal(cmd, s, name, path)
	case len(words) > 0:
		return writeEntry(cmd, s, parser, name, path, strings.Join(words, " "))
	default:
		return readJournal(cmd, s, parser, name, path)
	}
}

func newParser(s *settings.Settings, name string, logger *slog.Logger) (*journal.Parser, error) {
	timeFormat, err := s.TimeFormat(name)
	if err != nil {
		return nil, err
	}
	tagSymbols, err := s.TagSymbols(name)
	if err != nil {
		return nil, err
	}
	parser := journal.NewParser(timeFormat, tagSymbols)
	parser.Logger = logger
	return parser, nil
}

func editJournal(cmd *cobra.Command, s *settings.Settings, name, path string) error {
	editorCmd, err := s.Editor(name)
	if err != nil {
		suggestion := "Set 'editor' in your config file"
		if env, ok := editor.FromEnv(); ok {
			suggestion = fmt.Sprintf("Set 'editor' in your config file, or pass --config-override editor=%q", env)
		}
		return errors.NewUserError(err, suggestion)
	}

	logger := logging.FromContext(cmd.Context())
	manifest, err := newBackupManager().Backup(name, path)
	switch {
	case err == nil:
		logger.Debug("journal backed up", "journal", name, "id", manifest.ID)
	case errors.Is(err, backup.ErrNothingToBackUp):
	default:
		return errors.NewSystemError(err, "Check that "+options.BackupDir+" is writable, or pass --backup-dir")
	}

	logger.Debug("opening editor", "editor", editorCmd, "path", path)
	streams := editor.Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
	if err := editor.Open(editorCmd, path, streams); err != nil {
		return errors.NewSystemError(err, "Check that the 'editor' setting names an installed program")
	}
	return nil
}

func writeEntry(cmd *cobra.Command, s *settings.Settings, parser *journal.Parser, name, path, text string) error {
	hour, err := s.DefaultHour(name)
	if err != nil {
		return settingsError(err)
	}
	minute, err := s.DefaultMinute(name)
	if err != nil {
		return settingsError(err)
	}

	entry, err := parser.Compose(text, now(), hour, minute)
	if err != nil {
		return errors.NewUserError(err, "Entries start with text, optionally prefixed by a date as YYYY-MM-DD:")
	}
	if err := parser.Append(path, entry); err != nil {
		return errors.NewSystemError(err, "Check that the journal file is writable")
	}

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "[Entry added to %s journal]\n", name)
	}
	return nil
}

func readJournal(cmd *cobra.Command, s *settings.Settings, parser *journal.Parser, name, path string) error {
	j, err := journal.Load(name, path, parser)
	if err != nil {
		return errors.NewSystemError(err, "Check that the journal file is readable")
	}

	opts, err := display.OptionsFor(s, name)
	if err != nil {
		return settingsError(err)
	}
	if shortFlag {
		opts.Format = settings.DisplayShort
	}
	out := cmd.OutOrStdout()
	opts.Color = logging.SupportsColor(out)

	if err := display.NewReporter(out, opts).Report(j.Last(limitFlag)); err != nil {
		return errors.NewUserError(err, "Choose another --format")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
