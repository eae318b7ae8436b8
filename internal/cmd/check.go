package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bethropolis/dir-walker/internal/app"
)

// NewCheckCommand creates the check subcommand
func NewCheckCommand(flags *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir> <path>...",
		Short: "Show which ignore rule decides each path",
		Long: `Evaluate paths against the ignore files of <dir> without walking it.

Ignore files are read from <dir> down to each path's parent directory. Paths
are relative to <dir>. Each path prints as "source:line:pattern<TAB>path", or
"::<TAB>path" when no rule matches. A negated pattern in the output means the
path is re-included.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			a := app.New(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ignored, err := a.Check(args[0], args[1:])
			if err != nil {
				return err
			}
			a.Logger().Debug("check: %d of %d path(s) ignored", ignored, len(args)-1)
			return nil
		},
		SilenceUsage: true,
	}
}
