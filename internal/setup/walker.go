// Package setup provides initialization and configuration functions
package setup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bethropolis/dir-walker/internal/ignore"
	"github.com/bethropolis/dir-walker/internal/utils"
	"github.com/bethropolis/dir-walker/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a directory walker
type WalkerConfig struct {
	IgnoreFiles      []string
	FollowSymlinks   bool
	MaxDepth         int
	MaxEntries       int
	IncludeEmptyDirs bool
	IgnoreHidden     bool
	CaseSensitive    bool
	CustomPatterns   []string
	Filters          []string
	ShowProgress     bool
	ProgressOutput   io.Writer
	Context          context.Context
	Quiet            bool
	Logger           utils.Logger
}

// ConfigureWalker turns the config into walker options, reporting the
// effective settings through infoLog.
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) []walker.Option {
	if cfg.Logger == nil {
		cfg.Logger = utils.NoopLogger{}
	}

	walkOptions := []walker.Option{
		walker.WithLogger(cfg.Logger),
		walker.WithFollowSymlinks(cfg.FollowSymlinks),
		walker.WithMaxDepth(cfg.MaxDepth),
		walker.WithMaxEntries(cfg.MaxEntries),
		walker.WithIncludeEmptyDirs(cfg.IncludeEmptyDirs),
	}

	if len(cfg.IgnoreFiles) > 0 {
		walkOptions = append(walkOptions, walker.WithIgnoreFileNames(cfg.IgnoreFiles...))
		infoLog("Reading ignore files named: %s", strings.Join(cfg.IgnoreFiles, ", "))
	}

	matcherOptions := []ignore.Option{
		ignore.WithHiddenIgnore(cfg.IgnoreHidden),
		ignore.WithCaseSensitive(cfg.CaseSensitive),
	}
	if cfg.IgnoreHidden {
		infoLog("Ignoring hidden files/directories (starting with '.').")
	}
	if len(cfg.CustomPatterns) > 0 {
		infoLog("Using custom ignore patterns: %v", cfg.CustomPatterns)
		for _, w := range ignore.Lint(ignore.SourceCustom, []byte(strings.Join(cfg.CustomPatterns, "\n"))) {
			cfg.Logger.Warn("Custom pattern %s", w)
		}
		matcherOptions = append(matcherOptions, ignore.WithCustomRules(cfg.CustomPatterns))
	}
	walkOptions = append(walkOptions, walker.WithMatcherOptions(matcherOptions...))

	if len(cfg.Filters) > 0 {
		walkOptions = append(walkOptions, walker.WithFilter(cfg.Filters...))
		infoLog("Only listing entries matching: %s", strings.Join(cfg.Filters, ", "))
	}

	if cfg.MaxDepth > 0 {
		infoLog("Descending at most %d level(s).", cfg.MaxDepth)
	}
	if cfg.MaxEntries > 0 {
		infoLog("Stopping after %d entries.", cfg.MaxEntries)
	}

	if cfg.Context != nil {
		walkOptions = append(walkOptions, walker.WithContext(cfg.Context))
	}

	if cfg.ShowProgress && !cfg.Quiet && cfg.ProgressOutput != nil {
		cfg.Logger.Debug("Progress display enabled")
		walkOptions = append(walkOptions, walker.WithProgress(ProgressPrinter(cfg.ProgressOutput)))
	}

	return walkOptions
}

// ProgressPrinter returns a callback that redraws a single status line on out
func ProgressPrinter(out io.Writer) walker.ProgressCallback {
	return func(stats walker.ProgressStats) {
		path := stats.CurrentPath
		if path == "" {
			path = "."
		}
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}

		// carriage return overwrites the previous line
		fmt.Fprintf(out, "\rWalking: %-40s | Found: %d | Skipped: %d | Queued: %d",
			path,
			stats.Yielded,
			stats.Skipped,
			stats.QueueLen)
	}
}
