package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/jrnl/internal/backup"
	"github.com/thoreinstein/jrnl/internal/errors"
	"github.com/thoreinstein/jrnl/internal/logging"
	"github.com/thoreinstein/jrnl/internal/paths"
	"github.com/thoreinstein/jrnl/internal/settings"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage journal snapshots",
	Long: `Manage snapshots of journal files.

A snapshot is taken automatically before a journal is opened with --edit.
Only the newest snapshots of each journal are kept.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create [journal]",
	Short: "Snapshot a journal file",
	Example: `  jrnl backup create
  jrnl backup create work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list [journal]",
	Short: "List the snapshots of a journal",
	Long:  `List the snapshots of a journal, most recent first.`,
	Example: `  jrnl backup list
  jrnl backup list work --json

  See Also:
    jrnl backup restore - Restore a snapshot`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <journal> [backup-id]",
	Short: "Restore a journal from a snapshot",
	Long: `Restore a journal file from a snapshot.

Without a backup ID the most recent snapshot is used. The snapshot's contents
are verified against its recorded hash, then written over the journal file.`,
	Example: `  # Undo the last edit of the default journal
  jrnl backup restore default

  # Restore a specific snapshot
  jrnl backup restore work 20240301T100000.000000`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBackupRestore,
}

func newBackupManager() *backup.Manager {
	return backup.NewManager(backup.WithBackupDir(options.BackupDir))
}

func journalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return settings.DefaultJournalName
}

// journalPath returns the expanded file path of the named journal.
func journalPath(s *settings.Settings, name string) (string, error) {
	file, err := s.JournalFile(name)
	if err != nil {
		return "", settingsError(err)
	}
	path, err := paths.Expand(file)
	if err != nil {
		return "", errors.NewConfigError(err)
	}
	return path, nil
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	name := journalArg(args)
	path, err := journalPath(s, name)
	if err != nil {
		return err
	}

	manifest, err := newBackupManager().Backup(name, path)
	if err != nil {
		if errors.Is(err, backup.ErrNothingToBackUp) {
			return errors.NewUserError(err, "The journal has no entries yet")
		}
		return errors.NewSystemError(err, "Check that "+options.BackupDir+" is writable")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backed up %s journal: %s\n", name, manifest.ID)
	return nil
}

// backupInfoOutput represents a single snapshot in JSON output.
type backupInfoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	SourcePath  string    `json:"source_path"`
	JrnlVersion string    `json:"jrnl_version"`
}

func runBackupList(cmd *cobra.Command, args []string) error {
	name := journalArg(args)
	manifests, err := newBackupManager().List(name)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.NewSystemError(err, "")
	}

	if backupListJSON {
		return outputBackupListJSON(cmd.OutOrStdout(), name, manifests)
	}
	return outputBackupListTabular(cmd.OutOrStdout(), name, manifests)
}

func outputBackupListJSON(w io.Writer, name string, manifests []backup.Manifest) error {
	out := struct {
		Journal string             `json:"journal"`
		Backups []backupInfoOutput `json:"backups"`
	}{Journal: name, Backups: []backupInfoOutput{}}
	for _, m := range manifests {
		out.Backups = append(out.Backups, backupInfoOutput{
			ID:          m.ID,
			CreatedAt:   m.CreatedAt,
			SourcePath:  m.SourcePath,
			JrnlVersion: m.JrnlVersion,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding backup list")
}

func outputBackupListTabular(w io.Writer, name string, manifests []backup.Manifest) error {
	if len(manifests) == 0 {
		fmt.Fprintf(w, "No backups of the %s journal.\n", name)
		return nil
	}

	table := uitable.New()
	table.AddRow("ID", "CREATED", "SOURCE")
	for _, m := range manifests {
		table.AddRow(m.ID, m.CreatedAt.Local().Format(time.DateTime), m.SourcePath)
	}
	fmt.Fprintln(w, table)
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	name := args[0]
	mgr := newBackupManager()

	var id string
	if len(args) == 2 {
		id = args[1]
	} else {
		manifests, err := mgr.List(name)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(err, "Run 'jrnl backup create "+name+"' first")
			}
			return errors.NewSystemError(err, "")
		}
		id = manifests[0].ID
	}

	manifest, err := mgr.Restore(name, id)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(err, "Run 'jrnl backup list "+name+"' to see available backups")
		}
		if errors.Is(err, backup.ErrBackupCorrupted) {
			return errors.NewSystemError(err, "Choose an older backup")
		}
		return errors.NewSystemError(err, "")
	}

	logging.FromContext(cmd.Context()).Debug("backup restored", "journal", name, "id", id, "path", manifest.SourcePath)
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s journal from %s\n", name, manifest.ID)
	return nil
}
