package main

import (
	"context"
	"fmt"
	"strconv"

	"notesync/internal/bootstrap"
	"notesync/internal/dto"
	"notesync/internal/view"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	editTitle    string
	editBody     string
	editFavorite bool
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change a note's title, body or star",
	Long:  `Only the flags given are changed; the rest keep their current values.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseId(args[0])
		if err != nil {
			return err
		}

		return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
			note := findNote(c.NoteService.List(ctx), id)
			if note == nil {
				return fmt.Errorf("note %d not found", id)
			}

			ed := view.NewEditor(c.NoteService, view.ParamsFromNote(note))
			flags := cmd.Flags()
			if flags.Changed("title") {
				ed.SetTitle(editTitle)
			}
			if flags.Changed("body") {
				ed.SetBody(editBody)
			}
			if flags.Changed("favorite") && editFavorite != ed.IsFavorite() {
				ed.ToggleFavorite()
			}

			if err := ed.Save(ctx); err != nil {
				return alertError(err)
			}
			color.Green("Note #%d saved", id)
			return nil
		})
	},
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editBody, "body", "b", "", "new text")
	editCmd.Flags().BoolVarP(&editFavorite, "favorite", "f", false, "star (true) or unstar (false)")
	rootCmd.AddCommand(editCmd)
}

func parseId(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

func findNote(notes []*dto.NoteResponse, id int64) *dto.NoteResponse {
	for _, n := range notes {
		if n.Id == id {
			return n
		}
	}
	return nil
}
