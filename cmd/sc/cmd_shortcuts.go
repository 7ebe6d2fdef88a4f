package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/picker"
	"github.com/nikbrunner/sc/internal/render"
	"github.com/nikbrunner/sc/internal/search"
)

var errNothingToChange = errors.New("nothing to change: pass --name, --url, --category or --color")

func (c *cli) addCmd() *cobra.Command {
	var (
		category string
		favorite bool
		noIcon   bool
	)

	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a shortcut",
		Example: `  sc add GitHub github.com -c work
  sc add "Hacker News" https://news.ycombinator.com --favorite`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				sc, err := s.store.Add(model.AddShortcutParams{
					Name:       args[0],
					URL:        args[1],
					Category:   category,
					IsFavorite: favorite,
				})
				if err != nil {
					return err
				}
				id, name, url, cat := sc.ID, sc.Name, sc.URL, sc.Category

				if !noIcon {
					c.resolveIcon(cmd, s.store, id, url)
				}
				if err := s.save(); err != nil {
					return err
				}

				c.logger.Info("shortcut added", zap.String("id", id), zap.String("url", url))
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s\n", name, render.ShortID(id), render.FormatCategoryName(cat))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (created if new)")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")
	cmd.Flags().BoolVar(&noIcon, "no-icon", false, "Skip icon lookup")
	return cmd
}

// resolveIcon looks up the icon synchronously and stores it. Failures
// already fall back to the glyph inside the resolver.
func (c *cli) resolveIcon(cmd *cobra.Command, store *model.Store, id, url string) {
	result := c.newResolver().Resolve(cmd.Context(), url)
	if err := store.SetIcon(id, result.Icon, result.Preview); err != nil {
		c.logger.Debug("discarding icon result", zap.String("id", id), zap.Error(err))
	}
}

func (c *cli) listCmd() *cobra.Command {
	var (
		term   string
		filter string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List shortcuts grouped by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				f := search.Filter{SearchTerm: term, Current: strings.ToLower(strings.TrimSpace(filter))}
				switch f.Current {
				case "", search.FilterAll, search.FilterFavorites:
				default:
					if !s.store.HasCategory(f.Current) {
						return fmt.Errorf("%w: %q", model.ErrCategoryNotFound, filter)
					}
				}

				fmt.Fprint(cmd.OutOrStdout(), render.Outline(render.Build(s.store, f)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&term, "search", "s", "", "Only shortcuts whose name or URL contains the term")
	cmd.Flags().StringVarP(&filter, "filter", "f", search.FilterAll, "all, favorites or a category name")
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var (
		name, url, category, color string
		noIcon                     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a shortcut's name, URL, category or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params model.UpdateShortcutParams
			flags := cmd.Flags()
			if flags.Changed("name") {
				params.Name = &name
			}
			if flags.Changed("url") {
				params.URL = &url
			}
			if flags.Changed("category") {
				params.Category = &category
			}
			if flags.Changed("color") {
				params.Color = &color
			}
			if params == (model.UpdateShortcutParams{}) {
				return errNothingToChange
			}

			return c.withSession(func(s *session) error {
				sc, err := findShortcut(s.store, args[0])
				if err != nil {
					return err
				}
				id := sc.ID

				urlChanged, err := s.store.Update(id, params)
				if err != nil {
					return err
				}
				sc = s.store.ShortcutByID(id)
				if urlChanged && !noIcon {
					c.resolveIcon(cmd, s.store, id, sc.URL)
				}
				if err := s.save(); err != nil {
					return err
				}

				c.logger.Info("shortcut updated", zap.String("id", id), zap.Bool("urlChanged", urlChanged))
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", sc.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&url, "url", "", "New URL")
	cmd.Flags().StringVar(&category, "category", "", "New category (empty for uncategorized)")
	cmd.Flags().StringVar(&color, "color", "", "Name color as hex (empty to clear)")
	cmd.Flags().BoolVar(&noIcon, "no-icon", false, "Skip icon lookup when the URL changes")
	return cmd
}

func (c *cli) rmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a shortcut",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				sc, err := findShortcut(s.store, args[0])
				if err != nil {
					return err
				}
				id, name := sc.ID, sc.Name

				if !yes && !confirm(cmd, fmt.Sprintf("Delete %q?", name)) {
					return errCancelled
				}
				if err := s.store.Remove(id); err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}

				c.logger.Info("shortcut removed", zap.String("id", id))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (c *cli) dupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dup <id>",
		Short: "Duplicate a shortcut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				sc, err := findShortcut(s.store, args[0])
				if err != nil {
					return err
				}
				dup, err := s.store.Duplicate(sc.ID)
				if err != nil {
					return err
				}
				dupID, dupName := dup.ID, dup.Name
				if err := s.save(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", dupName, render.ShortID(dupID))
				return nil
			})
		},
	}
}

func (c *cli) favCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle a shortcut's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				sc, err := findShortcut(s.store, args[0])
				if err != nil {
					return err
				}
				favorite, err := s.store.ToggleFavorite(sc.ID)
				if err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}

				if favorite {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", sc.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", sc.Name)
				}
				return nil
			})
		},
	}
}

// openCmd performs a fuzzy search and opens the chosen shortcut.
func (c *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <query>",
		Short: "Fuzzy find a shortcut and open it in the browser",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return c.withSession(func(s *session) error {
				results := search.FuzzySearchShortcuts(s.store, query)
				if len(results) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No shortcuts found for '%s'\n", query)
					return nil
				}

				var selected *model.Shortcut
				if len(results) == 1 {
					// Single result - select it directly
					selected = results[0].Shortcut
				} else {
					p := picker.New(results, query)
					finalModel, err := tea.NewProgram(p).Run()
					if err != nil {
						return fmt.Errorf("run picker: %w", err)
					}
					finalPicker := finalModel.(picker.Picker)
					if finalPicker.Cancelled() {
						return nil
					}
					selected = finalPicker.SelectedShortcut()
				}
				if selected == nil {
					return nil
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Opening: %s\n", selected.Name)
				if err := c.openURL(selected.URL); err != nil {
					return fmt.Errorf("open %s: %w", selected.URL, err)
				}
				return nil
			})
		},
	}
}
