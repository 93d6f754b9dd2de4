package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"media-board/internal/app"
	"media-board/internal/filesystem"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print an image's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid image id %q", args[0])
			}

			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				img, err := a.Image(cmd.Context(), id)
				if err != nil {
					return err
				}

				thumb := "missing"
				if filesystem.Exists(a.Store.ThumbnailPath(img.Hash)) {
					thumb = a.Store.ThumbnailPath(img.Hash)
				}
				rows := [][]string{
					{"ID", strconv.FormatInt(img.ID, 10)},
					{"Hash", img.Hash},
					{"Filename", img.Filename},
					{"Type", img.Ext},
					{"Size", strconv.FormatInt(img.Filesize, 10)},
					{"Dimensions", fmt.Sprintf("%dx%d", img.Width, img.Height)},
					{"Tags", strings.Join(img.Tags, " ")},
					{"Source", img.Source},
					{"Rating", img.Rating},
					{"Locked", strconv.FormatBool(img.Locked)},
					{"Posted", img.Posted.Format("2006-01-02 15:04:05")},
					{"File", a.Store.ImagePath(img.Hash)},
					{"Thumbnail", thumb},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}
