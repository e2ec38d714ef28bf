package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/jrnl/internal/errors"
	"github.com/thoreinstein/jrnl/internal/paths"
	"github.com/thoreinstein/jrnl/internal/settings"
)

// ErrUnsupportedListFormat is returned for an unknown --format value of list.
var ErrUnsupportedListFormat = errors.New("unsupported list format")

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured journals",
	Long: `List every journal named in the settings file with the file it resolves to.

Journal paths have '~' expanded. A journal whose settings are invalid is
reported in place of its path.`,
	Example: `  jrnl list
  jrnl list --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "", "output format: json, yaml, toml (default table)")
	rootCmd.AddCommand(listCmd)
}

// journalListing is one row of the list output.
type journalListing struct {
	Name string
	Path string
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	var rows []journalListing
	for _, name := range s.JournalNames() {
		rows = append(rows, journalListing{Name: name, Path: listedPath(s, name)})
	}

	out := cmd.OutOrStdout()
	switch listFormat {
	case "":
		return listTable(out, options.ConfigFile, rows)
	case "json":
		return listJSON(out, options.ConfigFile, rows)
	case "yaml":
		return listYAML(out, options.ConfigFile, rows)
	case "toml":
		return listTOML(out, options.ConfigFile, rows)
	default:
		return errors.NewUserError(
			errors.Wrapf(ErrUnsupportedListFormat, "%q", listFormat),
			"Valid formats are json, yaml and toml",
		)
	}
}

func listedPath(s *settings.Settings, name string) string {
	file, err := s.JournalFile(name)
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	path, err := paths.Expand(file)
	if err != nil {
		return file
	}
	return path
}

func listTable(w io.Writer, configPath string, rows []journalListing) error {
	fmt.Fprintf(w, "Journals defined in config (%s)\n", configPath)
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}

	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	for _, r := range rows {
		table.AddRow(" *", r.Name, "->", r.Path)
	}
	fmt.Fprintln(w, table)
	return nil
}

func listJSON(w io.Writer, configPath string, rows []journalListing) error {
	journals := make(map[string]string, len(rows))
	for _, r := range rows {
		journals[r.Name] = r.Path
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(map[string]any{
		"config_path": configPath,
		"journals":    journals,
	}), "encoding journal list")
}

// listYAML builds the document as nodes so journals keep their configured order.
func listYAML(w io.Writer, configPath string, rows []journalListing) error {
	str := func(v string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	}
	journals := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range rows {
		journals.Content = append(journals.Content, str(r.Name), str(r.Path))
	}
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		str("config_path"), str(configPath),
		str("journals"), journals,
	}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding journal list")
	}
	return errors.Wrap(enc.Close(), "encoding journal list")
}

func listTOML(w io.Writer, configPath string, rows []journalListing) error {
	journals := make(map[string]string, len(rows))
	for _, r := range rows {
		journals[r.Name] = r.Path
	}
	data, err := toml.Marshal(map[string]any{
		"config_path": configPath,
		"journals":    journals,
	})
	if err != nil {
		return errors.Wrap(err, "encoding journal list")
	}
	_, err = w.Write(data)
	return err
}
