package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"media-board/internal/logging"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "boardctl",
		Short:         "Media board administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			level, ok := logging.ParseLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			logging.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.dataDir, "data-dir", "", "Warehouse directory (overrides DATA_DIR)")
	flags.StringVar(&ctx.databaseDir, "database-dir", "", "Database directory (overrides DATABASE_DIR)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newIngestCommand(ctx))
	rootCmd.AddCommand(newRegenThumbsCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newEnginesCommand(ctx))

	return rootCmd
}
