package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/render"
)

func (c *cli) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "List categories with their shortcut counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSession(func(s *session) error {
					for _, name := range s.store.Categories {
						fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", name, s.store.CountInCategory(name))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSession(func(s *session) error {
					name, err := s.store.AddCategory(args[0])
					if model.IsDuplicateCategory(err) {
						fmt.Fprintf(cmd.OutOrStdout(), "Category %s already exists\n", name)
						return nil
					}
					if err != nil {
						return err
					}
					if err := s.save(); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added category %s\n", name)
					return nil
				})
			},
		},
		c.categoryRmCmd(),
	)

	return cmd
}

func (c *cli) categoryRmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a category and every shortcut in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				name := model.NormalizeCategory(args[0])
				if !s.store.HasCategory(name) {
					return fmt.Errorf("%w: %q", model.ErrCategoryNotFound, args[0])
				}

				count := s.store.CountInCategory(name)
				prompt := fmt.Sprintf("Delete category %q?", render.FormatCategoryName(name))
				if count > 0 {
					prompt = fmt.Sprintf("Delete category %q and its %d shortcuts?", render.FormatCategoryName(name), count)
				}
				if !yes && !confirm(cmd, prompt) {
					return errCancelled
				}

				removed, err := s.store.DeleteCategory(name)
				if err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}

				c.logger.Info("category removed", zap.String("category", name), zap.Int("shortcuts", removed))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s (%d shortcuts)\n", name, removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
