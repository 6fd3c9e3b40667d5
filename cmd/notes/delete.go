package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"notesync/internal/bootstrap"
	"notesync/internal/view"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Deleting a note that no longer exists succeeds without changes.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseId(args[0])
		if err != nil {
			return err
		}

		return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
			ed := view.NewEditor(c.NoteService, &view.EditParams{Id: id})
			if err := ed.RequestDelete(); err != nil {
				return err
			}

			if !deleteYes && !confirm(view.DeleteConfirmation()) {
				ed.CancelDelete()
				color.HiBlack("Cancelled")
				return nil
			}

			if err := ed.ConfirmDelete(ctx); err != nil {
				return alertError(err)
			}
			color.Green("Note #%d deleted", id)
			return nil
		})
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func confirm(a view.Alert) bool {
	fmt.Printf("%s: %s [y/N] ", color.New(color.Bold).Sprint(a.Title), a.Message)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
