package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"media-board/internal/app"
)

const regenPageSize = 100

func newRegenThumbsCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "regen-thumbs",
		Short: "Generate missing thumbnails, or all of them with --force",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				var generated, kept, failed int
				var afterID int64
				for {
					page, err := a.DB.ListImages(cmd.Context(), afterID, regenPageSize)
					if err != nil {
						return err
					}
					if len(page) == 0 {
						break
					}
					for _, img := range page {
						afterID = img.ID
						tg, err := a.RegenerateThumbnail(cmd.Context(), img, force)
						switch {
						case err != nil:
							failed++
							fmt.Fprintf(cmd.ErrOrStderr(), "image %d: %v\n", img.ID, err)
						case tg.Generated:
							generated++
						default:
							kept++
						}
					}
					if err := cmd.Context().Err(); err != nil {
						return err
					}
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Generated", "Kept", "Failed"},
					[][]string{{strconv.Itoa(generated), strconv.Itoa(kept), strconv.Itoa(failed)}},
					[]columnAlignment{alignRight, alignRight, alignRight},
				))
				if failed > 0 {
					return fmt.Errorf("%d thumbnails failed", failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Regenerate thumbnails that already exist")
	return cmd
}
