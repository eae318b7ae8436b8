package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bethropolis/dir-walker/internal/app"
)

// NewLintCommand creates the lint subcommand
func NewLintCommand(flags *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <ignore-file>...",
		Short: "Report malformed lines in ignore files",
		Long: `Parse ignore files and print a warning for every line that cannot be used.

Exit code: 0 if every file is clean, 1 if any warning was found`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			_, err = app.New(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()).Lint(args)
			return err
		},
		SilenceUsage: true,
	}
}
