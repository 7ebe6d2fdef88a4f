package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/storage"
)

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change appearance settings",
	}

	var yes bool
	rmImage := &cobra.Command{
		Use:   "rm-bg-image",
		Short: "Remove the background image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				if !s.store.Settings.HasBackgroundImage() {
					return model.ErrNoBackgroundImage
				}
				if !yes && !confirm(cmd, "Remove background image?") {
					return errCancelled
				}
				if err := s.store.RemoveBackgroundImage(); err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Background image removed")
				return nil
			})
		},
	}
	rmImage.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSession(func(s *session) error {
					settings := s.store.Settings
					image := "none"
					if mimeType, size, ok := settings.BackgroundImageInfo(); ok {
						image = fmt.Sprintf("%s, %s", mimeType, humanize.Bytes(uint64(size)))
					}

					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Background color: %s\n", settings.BackgroundColor)
					fmt.Fprintf(out, "Button color:     %s\n", settings.ButtonColor)
					fmt.Fprintf(out, "Background image: %s\n", image)
					return nil
				})
			},
		},
		c.colorCmd("bg-color", "Set the background color", (*model.Store).SetBackgroundColor),
		c.colorCmd("button-color", "Set the button (accent) color", (*model.Store).SetButtonColor),
		&cobra.Command{
			Use:   "bg-image <path>",
			Short: "Set the background image from a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, mimeType, err := storage.ReadImageFile(args[0], c.cfg.MaxBackgroundImageBytes)
				if err != nil {
					return err
				}
				return c.withSession(func(s *session) error {
					if err := s.store.SetBackgroundImage(data, mimeType, c.cfg.MaxBackgroundImageBytes); err != nil {
						return err
					}
					if err := s.save(); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Background image set (%s, %s)\n", mimeType, humanize.Bytes(uint64(len(data))))
					return nil
				})
			},
		},
		rmImage,
	)

	return cmd
}

func (c *cli) colorCmd(use, short string, set func(*model.Store, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <hex>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := model.NormalizeColor(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				if err := set(s.store, color); err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", use, color)
				return nil
			})
		},
	}
}
