package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notesync/internal/bootstrap"
	"notesync/internal/view"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var watchFavorites bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the note count every time the table changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
			if c.Feed == nil {
				return errors.New("sync transport is none; nothing to watch")
			}

			lv := view.NewListView(c.NoteService, c.Feed, c.Topic, c.Logger)
			if watchFavorites {
				lv.ToggleFavoritesOnly()
			}
			lv.OnChange(func() {
				if lv.Loading() {
					return
				}
				fmt.Printf("%s %s: %d shown, %d total\n",
					color.HiBlackString("%s", time.Now().Format("15:04:05")),
					color.CyanString("%s", lv.Title()),
					len(lv.Displayed()),
					len(lv.All()),
				)
			})

			if err := lv.Mount(ctx); err != nil {
				return err
			}
			defer lv.Unmount()

			color.Yellow("Watching %s on %s (ctrl+c to stop)", c.Topic.Table, c.Topic.Channel)
			<-ctx.Done()
			return nil
		})
	},
}

func init() {
	watchCmd.Flags().BoolVarP(&watchFavorites, "favorites", "f", false, "count only starred notes")
	rootCmd.AddCommand(watchCmd)
}
