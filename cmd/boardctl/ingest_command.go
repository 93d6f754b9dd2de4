package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"media-board/internal/app"
	"media-board/internal/importer"
	"media-board/internal/mediatypes"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	cfg := importer.DefaultConfig()
	var tags string
	var noPathTags, includeHidden bool

	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Import every file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			cfg.Tags = mediatypes.ExplodeTags(tags)
			cfg.PathTags = !noPathTags
			cfg.SkipHidden = !includeHidden

			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				summary, err := importer.New(a, a.DB, cfg).Import(cmd.Context(), dir)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"Added", "Skipped", "Rejected", "Failed", "Duration"},
					[][]string{{
						strconv.Itoa(summary.Added),
						strconv.Itoa(summary.Skipped),
						strconv.Itoa(summary.Rejected),
						strconv.Itoa(summary.Failed),
						summary.Duration.Round(time.Millisecond).String(),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
				))

				var problems [][]string
				for _, r := range summary.Results {
					if r.Outcome == importer.OutcomeRejected || r.Outcome == importer.OutcomeFailed {
						problems = append(problems, []string{r.Path, r.Outcome, r.Err.Error()})
					}
				}
				if len(problems) > 0 {
					fmt.Fprintln(out, renderTable([]string{"File", "Outcome", "Reason"}, problems, nil))
				}
				return summary.Err()
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&tags, "tags", "", "Space separated tags added to every file")
	flags.StringVar(&cfg.Source, "source", "", "Source recorded on every image")
	flags.IntVar(&cfg.Workers, "workers", 0, "Hashing workers (0 = automatic, IMPORT_WORKERS overrides)")
	flags.BoolVar(&noPathTags, "no-path-tags", false, "Do not tag files with their directory names")
	flags.BoolVar(&includeHidden, "include-hidden", false, "Import files and directories starting with a dot")
	return cmd
}
