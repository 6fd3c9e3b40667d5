package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"notesync/internal/bootstrap"
	"notesync/internal/dto"
	"notesync/internal/view"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listFavorites bool
	listSearch    string
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, favorites first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
			notes := view.Filter(c.NoteService.List(ctx), view.Criteria{
				FavoritesOnly: listFavorites,
				Query:         listSearch,
			})

			if listJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(notes)
			}

			if len(notes) == 0 {
				color.HiBlack("%s", emptyMessage(listFavorites, listSearch))
				return nil
			}
			for _, n := range notes {
				printNote(n)
			}
			return nil
		})
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listFavorites, "favorites", "f", false, "only starred notes")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "case-insensitive text in title or body")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
	rootCmd.AddCommand(listCmd)
}

func printNote(n *dto.NoteResponse) {
	star := color.HiBlackString("☆")
	if n.IsFavorite {
		star = color.YellowString("★")
	}
	title := n.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Printf("%s %s %s  %s\n",
		star,
		color.CyanString("#%d", n.Id),
		color.New(color.Bold).Sprint(title),
		color.HiBlackString("%s", n.CreatedAt.Format("2006-01-02 15:04")),
	)
	if n.Body != "" {
		fmt.Printf("    %s\n", n.Body)
	}
}

func emptyMessage(favorites bool, query string) string {
	switch {
	case query != "":
		return "No matching notes found."
	case favorites:
		return "No starred notes yet."
	default:
		return `No notes yet. Run "notes add" to start.`
	}
}
