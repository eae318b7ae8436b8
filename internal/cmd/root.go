// Package cmd wires the cobra command tree
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bethropolis/dir-walker/internal/app"
	"github.com/bethropolis/dir-walker/internal/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// flagValues receives every command-line flag before it is merged into a Config
type flagValues struct {
	configFile string

	// shared by every subcommand
	verbose       bool
	quiet         bool
	logLevel      string
	noColor       bool
	hidden        bool
	caseSensitive bool
	customIgnore  string
	ignoreFiles   []string

	// walk only
	followSymlinks   bool
	maxDepth         int
	maxEntries       int
	includeEmptyDirs bool
	filters          []string
	format           string
	output           string
	showSkipped      bool
	progress         bool
	timeout          time.Duration
}

// NewRootCommand creates the root command, which walks a directory
func NewRootCommand() *cobra.Command {
	flags := &flagValues{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "dir-walker [dir]",
		Short: "List a directory tree breadth-first, honoring .gitignore files",
		Long: `dir-walker lists every entry under a directory in breadth-first order.

Ignore files found along the way (.gitignore by default) are applied to the
directory they live in and everything below it, with the last matching rule
winning. Directories whose contents can never be re-included are not read.

Settings are read from .dir-walker.yaml (or --config) and overridden by flags.`,
		Args:    cobra.MaximumNArgs(1),
		Version: Version,
		// main prints the error; usage on errors is noise
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.RootDir = args[0]
			}
			return app.New(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()).Run(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Config file (default \""+config.DefaultConfigFile+"\" if present)")
	pf.BoolVar(&flags.verbose, "verbose", false, "Enable verbose logging (DEBUG, WARN, ERROR)")
	pf.BoolVar(&flags.quiet, "quiet", false, "Suppress INFO messages (only show WARN, ERROR)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Set the logging level (debug, info, warn, error, none)")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable color output")
	pf.BoolVar(&flags.hidden, "hidden", false, "Ignore hidden files/directories (starting with '.')")
	pf.BoolVar(&flags.caseSensitive, "case-sensitive", false, "Match ignore patterns case-sensitively")
	pf.StringVar(&flags.customIgnore, "ignore", "", "Custom ignore patterns (comma-separated, gitignore syntax)")
	pf.StringArrayVar(&flags.ignoreFiles, "ignore-file", defaults.IgnoreFiles, "Name of the ignore files read in every directory (repeatable)")

	f := cmd.Flags()
	f.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "Descend into symlinked directories (not on Windows)")
	f.IntVar(&flags.maxDepth, "max-depth", 0, "Maximum depth below the root (0 = unlimited)")
	f.IntVar(&flags.maxEntries, "max-entries", 0, "Stop after this many entries (0 = unlimited)")
	f.BoolVar(&flags.includeEmptyDirs, "include-empty-dirs", false, "List directories that have no children")
	f.StringArrayVar(&flags.filters, "filter", nil, "Only list entries matching this glob (repeatable, ** supported)")
	f.StringVar(&flags.format, "format", defaults.Format, "Output format: text, json, markdown or tree")
	f.StringVarP(&flags.output, "output", "o", "", "Write results to this file instead of stdout")
	f.BoolVar(&flags.showSkipped, "show-skipped", false, "Show skipped files/directories and reasons at the end")
	f.BoolVar(&flags.progress, "progress", false, "Show progress information")
	f.DurationVar(&flags.timeout, "timeout", 0, "Maximum walk time (e.g. '30s', '5m')")

	cmd.AddCommand(NewCheckCommand(flags))
	cmd.AddCommand(NewLintCommand(flags))

	return cmd
}

// loadConfig reads the config file and applies the flags set on the command line
func loadConfig(cmd *cobra.Command, flags *flagValues) (*config.Config, error) {
	path := flags.configFile
	if path == "" {
		path = config.DefaultConfigFile
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, cfg)

	cfg.DetectColors()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies every flag the user set explicitly over cfg
func (v *flagValues) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("verbose") {
		cfg.Verbose = v.verbose
	}
	if set("quiet") {
		cfg.Quiet = v.quiet
	}
	if set("log-level") {
		cfg.LogLevel = v.logLevel
	}
	if set("no-color") {
		cfg.NoColor = v.noColor
	}
	if set("hidden") {
		cfg.IgnoreHidden = v.hidden
	}
	if set("case-sensitive") {
		cfg.CaseSensitive = v.caseSensitive
	}
	if set("ignore") {
		cfg.CustomIgnore = v.customIgnore
	}
	if set("ignore-file") {
		cfg.IgnoreFiles = v.ignoreFiles
	}
	if set("follow-symlinks") {
		cfg.FollowSymlinks = v.followSymlinks
	}
	if set("max-depth") {
		cfg.MaxDepth = v.maxDepth
	}
	if set("max-entries") {
		cfg.MaxEntries = v.maxEntries
	}
	if set("include-empty-dirs") {
		cfg.IncludeEmptyDirs = v.includeEmptyDirs
	}
	if set("filter") {
		cfg.Filters = v.filters
	}
	if set("format") {
		cfg.Format = v.format
	}
	if set("output") {
		cfg.OutputFile = v.output
	}
	if set("show-skipped") {
		cfg.ShowSkipped = v.showSkipped
	}
	if set("progress") {
		cfg.ShowProgress = v.progress
	}
	if set("timeout") {
		cfg.Timeout = v.timeout
	}
}
