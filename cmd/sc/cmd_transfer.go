package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/exporter"
	"github.com/nikbrunner/sc/internal/importer"
)

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import shortcuts from a browser bookmarks HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			imported, err := importer.ParseHTMLShortcuts(file)
			if err != nil {
				return fmt.Errorf("parse HTML: %w", err)
			}

			return c.withSession(func(s *session) error {
				added, skipped := s.store.ImportMerge(imported)
				if err := s.save(); err != nil {
					return err
				}

				c.logger.Info("import finished", zap.String("file", args[0]), zap.Int("added", added), zap.Int("skipped", skipped))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d shortcuts", added)
				if skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (%d duplicates skipped)", skipped)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export shortcuts as bookmarks HTML or homepage YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != exporter.FormatHTML && format != exporter.FormatYAML {
				return fmt.Errorf("unknown export format %q (want html or yaml)", format)
			}

			outputPath := ""
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				outputPath, err = exporter.DefaultExportPath(format)
				if err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
			}

			return c.withSession(func(s *session) error {
				var data []byte
				if format == exporter.FormatYAML {
					var err error
					data, err = exporter.ExportYAML(s.store)
					if err != nil {
						return err
					}
				} else {
					data = []byte(exporter.ExportHTML(s.store))
				}

				if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
				if err := os.WriteFile(outputPath, data, 0644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d shortcuts to %s\n", len(s.store.Shortcuts), outputPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", exporter.FormatHTML, "html or yaml")
	return cmd
}
