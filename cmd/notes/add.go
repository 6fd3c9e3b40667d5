package main

import (
	"context"
	"fmt"

	"notesync/internal/bootstrap"
	"notesync/internal/view"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	addTitle    string
	addBody     string
	addFavorite bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
			ed := view.NewEditor(c.NoteService, nil)
			ed.SetTitle(addTitle)
			ed.SetBody(addBody)
			if addFavorite {
				ed.ToggleFavorite()
			}
			if err := ed.Save(ctx); err != nil {
				return alertError(err)
			}
			color.Green("Note saved")
			return nil
		})
	},
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "note title")
	addCmd.Flags().StringVarP(&addBody, "body", "b", "", "note text")
	addCmd.Flags().BoolVarP(&addFavorite, "favorite", "f", false, "star the note")
	rootCmd.AddCommand(addCmd)
}

// alertError renders an editor error the way the interactive app shows it.
func alertError(err error) error {
	alert := view.AlertFor(err)
	return fmt.Errorf("%s: %s (%w)", alert.Title, alert.Message, err)
}
