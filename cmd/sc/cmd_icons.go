package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/icon"
	"github.com/nikbrunner/sc/internal/model"
)

func (c *cli) iconsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Manage shortcut icons",
	}

	var missing bool
	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Resolve icons and previews again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				var targets []icon.Target
				for _, sc := range s.store.Shortcuts {
					if missing && sc.HasIconURL() {
						continue
					}
					targets = append(targets, icon.Target{ID: sc.ID, URL: sc.URL})
				}
				if len(targets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to refresh")
					return nil
				}

				errOut := cmd.ErrOrStderr()
				results := icon.RefreshAll(cmd.Context(), c.newResolver(), targets, c.cfg.RefreshConcurrency,
					func(completed, total int) {
						fmt.Fprintf(errOut, "\rResolving icons %d/%d", completed, total)
					})
				fmt.Fprintln(errOut)

				found := 0
				for _, result := range results {
					if err := s.store.SetIcon(result.ID, result.Icon, result.Preview); err != nil {
						c.logger.Debug("discarding icon result", zap.String("id", result.ID), zap.Error(err))
						continue
					}
					if result.Icon != model.FallbackGlyph {
						found++
					}
				}
				if err := s.save(); err != nil {
					return err
				}

				c.logger.Info("icons refreshed", zap.Int("total", len(results)), zap.Int("found", found))
				fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d icons (%d found)\n", len(results), found)
				return nil
			})
		},
	}
	refresh.Flags().BoolVar(&missing, "missing", false, "Only shortcuts without a favicon")

	cmd.AddCommand(refresh)
	return cmd
}
