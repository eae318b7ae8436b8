package walker

import (
	"context"

	"github.com/bethropolis/dir-walker/internal/fsys"
	"github.com/bethropolis/dir-walker/internal/ignore"
	"github.com/bethropolis/dir-walker/internal/utils"
)

// DefaultIgnoreFileName is read in every directory unless overridden
const DefaultIgnoreFileName = ".gitignore"

// WalkOptions configures the behavior of a Walker
type WalkOptions struct {
	Logger           utils.Logger
	FS               fsys.FS
	Context          context.Context
	IgnoreFileNames  []string
	FollowSymlinks   bool
	MaxDepth         int // 0 = unlimited
	MaxEntries       int // 0 = unlimited
	IncludeEmptyDirs bool
	Filters          []string
	MatcherOptions   []ignore.Option
	ProgressFn       ProgressCallback
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the walk progress
type ProgressStats struct {
	Dequeued    int64  // Queue items evaluated so far
	Yielded     int64  // Entries returned to the caller
	Skipped     int64  // Entries skipped for any reason
	ListedDirs  int64  // Directories whose children were enumerated
	QueueLen    int    // Items still waiting
	CurrentPath string // Relative path of the item just evaluated
}

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:          &utils.NoopLogger{},
		FS:              fsys.NewOsFS(),
		Context:         context.Background(),
		IgnoreFileNames: []string{DefaultIgnoreFileName},
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithFS sets the filesystem collaborator
func WithFS(f fsys.FS) Option {
	return func(opts *WalkOptions) {
		if f != nil {
			opts.FS = f
		}
	}
}

// WithContext stops the walk once ctx is done
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithIgnoreFileNames sets the file names read as ignore files in every directory
func WithIgnoreFileNames(names ...string) Option {
	return func(opts *WalkOptions) {
		if len(names) > 0 {
			opts.IgnoreFileNames = names
		}
	}
}

// WithFollowSymlinks enables following symbolic links where the platform allows it
func WithFollowSymlinks(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.FollowSymlinks = enabled
	}
}

// WithMaxDepth limits how deep the walk goes (0 = unlimited, 1 = root children only)
func WithMaxDepth(depth int) Option {
	return func(opts *WalkOptions) {
		if depth >= 0 {
			opts.MaxDepth = depth
		}
	}
}

// WithMaxEntries stops the walk after this many results (0 = unlimited)
func WithMaxEntries(n int) Option {
	return func(opts *WalkOptions) {
		if n >= 0 {
			opts.MaxEntries = n
		}
	}
}

// WithIncludeEmptyDirs yields directories that have no children
func WithIncludeEmptyDirs(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.IncludeEmptyDirs = enabled
	}
}

// WithFilter only yields entries matching one of the globs. Directories are
// still descended into. Patterns use doublestar syntax; a pattern without "/"
// matches the base name.
func WithFilter(patterns ...string) Option {
	return func(opts *WalkOptions) {
		opts.Filters = append(opts.Filters, patterns...)
	}
}

// WithMatcherOptions forwards options to the per-walk ignore matcher
func WithMatcherOptions(options ...ignore.Option) Option {
	return func(opts *WalkOptions) {
		opts.MatcherOptions = append(opts.MatcherOptions, options...)
	}
}

// WithProgress adds a progress callback, invoked after every evaluated item
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}
