package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"media-board/internal/thumbnail"
)

func newEnginesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List thumbnail engines and external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var engines [][]string
			for _, name := range thumbnail.Names() {
				active := ""
				if name == cfg.Thumbs.Engine {
					active = "*"
				}
				engines = append(engines, []string{name, active})
			}
			fmt.Fprintln(out, renderTable([]string{"Engine", "Active"}, engines, nil))

			var tools [][]string
			for _, t := range thumbnail.CheckTools(thumbnail.Tools(cfg.Thumbs)) {
				status := "ok"
				if !t.Available {
					status = "missing"
					if t.Optional {
						status = "missing (optional)"
					}
				}
				tools = append(tools, []string{t.Name, t.Command, t.Purpose, status, t.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Purpose", "Status", "Detail"}, tools, nil))
			return nil
		},
	}
}
