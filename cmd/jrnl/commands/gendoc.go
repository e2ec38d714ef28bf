package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/jrnl/internal/errors"
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown documentation for the CLI",
	Hidden: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputDir, _ := cmd.Flags().GetString("dir")
		if outputDir == "" {
			return errors.NewUserError(errors.New("output directory is required"), "Pass --dir <directory>")
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}

		if err := doc.GenMarkdownTreeCustom(rootCmd, outputDir, filePrepender, linkHandler); err != nil {
			return errors.Wrap(err, "generating markdown")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", outputDir)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringP("dir", "d", "", "Output directory for documentation")
	rootCmd.AddCommand(genDocCmd)
}

// filePrepender adds front matter, titling jrnl_list.md as "jrnl list".
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	title := strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s command"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/reference/" + strings.ToLower(base) + "/"
}
