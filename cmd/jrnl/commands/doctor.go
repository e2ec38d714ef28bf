package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/jrnl/internal/doctor"
	"github.com/thoreinstein/jrnl/internal/errors"
	"github.com/thoreinstein/jrnl/internal/logging"
	"github.com/thoreinstein/jrnl/internal/override"
)

var (
	doctorJSON bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"restrict journal file permissions where they are too open")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose settings and journal problems",
	Long: `Run diagnostic checks on the settings file and every journal it names.

The settings file is read as it is; doctor never creates it. For each journal
the checks resolve its settings, look at its file and permissions, parse its
entries, and flag features jrnl does not support.

Output modes:
  (default)   Show errors and warnings
  -v          Show all checks including passed ones
  -q          No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - No errors or warnings
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  jrnl doctor
  jrnl doctor --fix
  jrnl --config-override encrypt=false doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("warnings found")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("errors found")

func runDoctor(cmd *cobra.Command, _ []string) error {
	patch, err := override.Collect(override.Flatten(configOverrides))
	if err != nil {
		return errors.NewUserError(err, overrideSuggestion(err))
	}

	runner := doctor.NewRunner()
	settingsCheck := doctor.NewSettingsFileCheck(options.ConfigFile, patch)
	runner.AddCheck(settingsCheck)
	if s := settingsCheck.Settings(); s != nil {
		for _, name := range s.JournalNames() {
			runner.AddCheck(doctor.NewJournalCheck(s, name))
		}
	}

	report := runner.Run()

	var fixes []doctor.FixResult
	if doctorFix {
		fixes = applyFixes(runner)
		if len(fixes) > 0 {
			report = runner.Run()
		}
	}
	logging.FromContext(cmd.Context()).Debug("doctor finished",
		"checks", len(report.Results), "errors", report.Summary.Errors, "fixes", len(fixes))

	if err := outputDoctorReport(cmd.OutOrStdout(), report, fixes); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func applyFixes(runner *doctor.Runner) []doctor.FixResult {
	var fixes []doctor.FixResult
	for _, check := range runner.Checks() {
		if fixer, ok := check.(doctor.Fixer); ok && fixer.CanFix() {
			fixes = append(fixes, fixer.Fix()...)
		}
	}
	return fixes
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) error {
	if quiet {
		return nil
	}
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := struct {
			*doctor.DoctorReport
			Fixes []doctor.FixResult `json:"fixes,omitempty"`
		}{report, fixes}
		return errors.Wrap(enc.Encode(out), "encoding JSON")
	}
	outputDoctorText(w, report, fixes)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) {
	// Passed and info checks are shown only with -v
	showAll := verbosity > 0
	colored := logging.SupportsColor(w)

	for _, fix := range fixes {
		if fix.Fixed {
			fmt.Fprintf(w, "fixed %s: %s\n", fix.Path, fix.Description)
		} else {
			fmt.Fprintf(w, "could not fix %s: %s\n", fix.Path, fix.Description)
		}
	}

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status, colored), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll || len(fixes) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity, colored bool) string {
	var icon string
	var attr color.Attribute
	switch s {
	case doctor.SeverityPass:
		icon, attr = "✓", color.FgGreen
	case doctor.SeverityInfo:
		icon, attr = "ℹ", color.FgBlue
	case doctor.SeverityWarning:
		icon, attr = "⚠", color.FgYellow
	case doctor.SeverityError:
		icon, attr = "✗", color.FgRed
	default:
		return "?"
	}
	if !colored {
		return icon
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(icon)
}
