package doctor

import (
	"cmp"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/jrnl/internal/journal"
	"github.com/thoreinstein/jrnl/internal/paths"
	"github.com/thoreinstein/jrnl/internal/settings"
	"github.com/thoreinstein/jrnl/pkg/fileutil"
)

// privateFilePerm is the permission journal files are expected to have.
const privateFilePerm os.FileMode = 0o600

// maxReportedLines caps the line numbers listed for malformed title lines.
const maxReportedLines = 5

// finding is one problem a check observed.
type finding struct {
	severity Severity
	message  string
	hint     string
}

// fold folds findings into a CheckResult. With no findings the check passes
// with passMessage.
func fold(c Check, passMessage string, details map[string]any, findings []finding) *CheckResult {
	res := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  passMessage,
		Details:  details,
	}
	if len(findings) == 0 {
		return res
	}

	worst := slices.MaxFunc(findings, func(a, b finding) int {
		return cmp.Compare(a.severity, b.severity)
	})
	messages := make([]string, len(findings))
	for i, f := range findings {
		messages[i] = f.message
	}
	res.Status = worst.severity
	res.Message = strings.Join(messages, "; ")
	res.FixHint = worst.hint
	return res
}

// SettingsFileCheck loads the settings document with the run's overrides.
type SettingsFileCheck struct {
	path     string
	settings *settings.Settings
	err      error
}

var _ Check = (*SettingsFileCheck)(nil)

// NewSettingsFileCheck reads and decodes the settings file at path. The
// decoded settings are available from Settings before Run is called.
func NewSettingsFileCheck(path string, patch *settings.Patch) *SettingsFileCheck {
	c := &SettingsFileCheck{path: path}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		c.err = err
		return c
	}
	c.settings, c.err = settings.Load(data, patch)
	return c
}

// Settings returns the decoded settings, or nil if they could not be loaded.
func (c *SettingsFileCheck) Settings() *settings.Settings {
	return c.settings
}

func (c *SettingsFileCheck) Name() string {
	return "settings-file"
}

func (c *SettingsFileCheck) Category() string {
	return "settings"
}

func (c *SettingsFileCheck) Run() *CheckResult {
	details := map[string]any{"path": c.path}

	var findings []finding
	switch {
	case errors.Is(c.err, fs.ErrNotExist):
		findings = append(findings, finding{SeverityError, "settings file does not exist", "run jrnl once to create it"})
	case c.err != nil:
		hint := "fix the settings file, or move it aside and run jrnl to recreate it"
		if hints := errors.GetAllHints(c.err); len(hints) > 0 {
			hint = hints[0]
		}
		findings = append(findings, finding{SeverityError, c.err.Error(), hint})
	default:
		names := c.settings.JournalNames()
		details["journals"] = names
		if !c.settings.HasJournal(settings.DefaultJournalName) {
			findings = append(findings, finding{
				SeverityWarning,
				"no default journal is configured",
				"add a 'default' entry under journals; entry text without a journal name goes there",
			})
		}
	}

	return fold(c, "settings file is valid", details, findings)
}

// JournalCheck verifies one configured journal: its settings resolve, its
// file is private and readable, its entries parse, and it uses only
// supported features.
type JournalCheck struct {
	PermissionFixer

	name     string
	settings *settings.Settings
}

var (
	_ Check = (*JournalCheck)(nil)
	_ Fixer = (*JournalCheck)(nil)
)

// NewJournalCheck creates a check for the named journal.
func NewJournalCheck(s *settings.Settings, name string) *JournalCheck {
	return &JournalCheck{name: name, settings: s}
}

func (c *JournalCheck) Name() string {
	return "journal:" + c.name
}

func (c *JournalCheck) Category() string {
	return "journal"
}

func (c *JournalCheck) Run() *CheckResult {
	details := map[string]any{}
	c.setIssues(nil)

	file, err := c.settings.JournalFile(c.name)
	if err != nil {
		return fold(c, "", details, []finding{resolveFinding(err)})
	}
	path, err := paths.Expand(file)
	if err != nil {
		return fold(c, "", details, []finding{{SeverityError, err.Error(), "fix the journal path in the settings file"}})
	}
	details["path"] = path

	var findings []finding
	findings = append(findings, c.checkFeatures()...)
	findings = append(findings, c.checkEditor()...)

	fileFindings, exists := c.checkFile(path)
	findings = append(findings, fileFindings...)
	if !exists {
		if len(findings) == 0 {
			return fold(c, "journal has no file yet", details, []finding{{SeverityInfo, "journal has no file yet", ""}})
		}
		return fold(c, "", details, findings)
	}

	entryFindings, entries := c.checkEntries(path)
	findings = append(findings, entryFindings...)
	details["entries"] = entries

	return fold(c, fmt.Sprintf("%d entries", entries), details, findings)
}

func resolveFinding(err error) finding {
	hint := "check the journals table in the settings file"
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		hint = hints[0]
	}
	return finding{SeverityError, err.Error(), hint}
}

func (c *JournalCheck) checkFeatures() []finding {
	var findings []finding

	encrypt, err := c.settings.Encrypt(c.name)
	if err != nil {
		return []finding{resolveFinding(err)}
	}
	if encrypt {
		findings = append(findings, finding{
			SeverityError,
			"encrypted journals are not supported",
			"set 'encrypt: false' for this journal",
		})
	}

	format, err := c.settings.DisplayFormat(c.name)
	if err != nil {
		return append(findings, resolveFinding(err))
	}
	switch format {
	case settings.DisplayBoxed, settings.DisplayXML:
		findings = append(findings, finding{
			SeverityWarning,
			fmt.Sprintf("display format %q is not supported", format),
			"set display_format to text, pretty, short, json, yaml, markdown, tags or dates",
		})
	}
	return findings
}

// checkEditor reports a configured editor that cannot be found. An unset
// editor is only needed for --edit and is not a problem.
func (c *JournalCheck) checkEditor() []finding {
	editorCmd, err := c.settings.Editor(c.name)
	if err != nil {
		return nil
	}
	fields := strings.Fields(editorCmd)
	if len(fields) == 0 {
		return []finding{{SeverityWarning, "editor is empty", "set 'editor' to a command such as 'vim'"}}
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return []finding{{
			SeverityWarning,
			fmt.Sprintf("editor %q not found in PATH", fields[0]),
			"install the editor or change the 'editor' setting",
		}}
	}
	return nil
}

// checkFile reports whether the journal file exists, along with any problems.
func (c *JournalCheck) checkFile(path string) ([]finding, bool) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		return []finding{{SeverityError, fmt.Sprintf("cannot stat journal file: %v", err), ""}}, false
	}
	if info.IsDir() {
		return []finding{{SeverityError, "journal path is a directory", "point the journal at a file"}}, false
	}

	f, err := os.Open(path)
	if err != nil {
		return []finding{{SeverityError, "journal file is not readable", "chmod 600 " + path}}, false
	}
	f.Close()

	// Unix permissions do not apply on Windows
	if runtime.GOOS == "windows" {
		return nil, true
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		c.setIssues([]pathIssue{{Path: path, Type: "file", Fixable: true}})
		return []finding{{
			SeverityWarning,
			fmt.Sprintf("journal file is accessible to other users (%04o)", perm),
			"run jrnl doctor --fix, or chmod 600 " + path,
		}}, true
	}
	return nil, true
}

// checkEntries parses the journal and reports title lines that do not parse
// and entries stored out of time order.
func (c *JournalCheck) checkEntries(path string) ([]finding, int) {
	timeFormat, err := c.settings.TimeFormat(c.name)
	if err != nil {
		return []finding{resolveFinding(err)}, 0
	}
	tagSymbols, err := c.settings.TagSymbols(c.name)
	if err != nil {
		return []finding{resolveFinding(err)}, 0
	}
	parser := journal.NewParser(timeFormat, tagSymbols)

	data, err := fileutil.ReadFileLimit(path, journal.MaxJournalSize)
	if err != nil {
		return []finding{{SeverityError, err.Error(), ""}}, 0
	}

	var (
		malformed []int
		entries   int
		ordered   = true
		previous  journal.Entry
		lineNo    int
	)
	for line := range journal.Lines(string(data)) {
		lineNo++
		if !journal.IsTitleLine(line) {
			continue
		}
		e, err := parser.ParseEntry([]string{line})
		if err != nil {
			malformed = append(malformed, lineNo)
			continue
		}
		if entries > 0 && e.Time.Before(previous.Time) {
			ordered = false
		}
		previous = e
		entries++
	}

	var findings []finding
	if len(malformed) > 0 {
		shown := malformed[:min(len(malformed), maxReportedLines)]
		findings = append(findings, finding{
			SeverityWarning,
			fmt.Sprintf("%d entries have a timestamp that does not match timeformat %q (lines %s)",
				len(malformed), timeFormat, joinInts(shown)),
			"fix the timestamps, or set timeformat for this journal to the layout they use",
		})
	}
	if !ordered {
		findings = append(findings, finding{
			SeverityInfo,
			"entries are stored out of time order; they are sorted when read",
			"",
		})
	}
	return findings, entries
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
