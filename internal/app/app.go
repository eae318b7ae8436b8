// Package app runs the walk, check and lint operations behind the CLI
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/bethropolis/dir-walker/internal/config"
	"github.com/bethropolis/dir-walker/internal/filelock"
	"github.com/bethropolis/dir-walker/internal/fsys"
	"github.com/bethropolis/dir-walker/internal/ignore"
	"github.com/bethropolis/dir-walker/internal/logger"
	"github.com/bethropolis/dir-walker/internal/printer"
	"github.com/bethropolis/dir-walker/internal/setup"
	"github.com/bethropolis/dir-walker/internal/summary"
	"github.com/bethropolis/dir-walker/internal/walker"
)

// outputLockTimeout bounds how long a run waits for another writer of --output
const outputLockTimeout = 30 * time.Second

// ErrLintWarnings is returned by Lint when any ignore file has problems
var ErrLintWarnings = errors.New("ignore files have warnings")

// App encapsulates the main application functionality
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	fs     fsys.FS
	Output io.Writer
	Errors io.Writer
}

// New creates a new App writing results to stdout and diagnostics to stderr
func New(cfg *config.Config, stdout, stderr io.Writer) *App {
	// Configure color globally
	color.NoColor = !cfg.UseColors

	log := logger.New(stderr, cfg.Verbose, cfg.UseColors)

	// Apply log level if specified (overrides verbose/quiet flags)
	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}

	return &App{
		cfg:    cfg,
		log:    log,
		fs:     fsys.NewOsFS(),
		Output: stdout,
		Errors: stderr,
	}
}

// WithFS swaps the filesystem the app reads from
func (a *App) WithFS(f fsys.FS) *App {
	a.fs = f
	return a
}

// Logger exposes the app's logger
func (a *App) Logger() *logger.Logger {
	return a.log
}

func (a *App) infoLog(format string, args ...interface{}) {
	if !a.cfg.Quiet {
		a.log.Info(format, args...)
	}
}

// Run walks the configured root and renders the results.
// A timeout stops the walk early; the partial output is still written.
func (a *App) Run(ctx context.Context) error {
	startTime := time.Now()

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	a.log.Debug("Color output: %v", a.cfg.UseColors)
	a.log.Debug("Directory: %s", a.cfg.RootDir)
	a.log.Debug("Limits: depth=%d entries=%d timeout=%v", a.cfg.MaxDepth, a.cfg.MaxEntries, a.cfg.Timeout)

	walkOptions := setup.ConfigureWalker(setup.WalkerConfig{
		IgnoreFiles:      a.cfg.IgnoreFiles,
		FollowSymlinks:   a.cfg.FollowSymlinks,
		MaxDepth:         a.cfg.MaxDepth,
		MaxEntries:       a.cfg.MaxEntries,
		IncludeEmptyDirs: a.cfg.IncludeEmptyDirs,
		IgnoreHidden:     a.cfg.IgnoreHidden,
		CaseSensitive:    a.cfg.CaseSensitive,
		CustomPatterns:   a.cfg.CustomPatterns(),
		Filters:          a.cfg.Filters,
		ShowProgress:     a.cfg.ShowProgress,
		ProgressOutput:   a.Errors,
		Context:          ctx,
		Quiet:            a.cfg.Quiet,
		Logger:           a.log,
	}, a.infoLog)
	walkOptions = append(walkOptions, walker.WithFS(a.fs))

	w, err := walker.New(a.cfg.RootDir, walkOptions...)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	a.infoLog("Walking directory: %s", w.Root())

	var buf bytes.Buffer
	var out io.Writer = a.Output
	if a.cfg.OutputFile != "" {
		out = &buf
	}

	p := printer.New().
		WithOutput(out).
		WithColors(a.cfg.UseColors && a.cfg.Format == config.FormatText).
		WithFormat(printer.Format(a.cfg.Format)).
		WithRootLabel(filepath.Base(w.Root()))

	report := summary.NewReport()
	for entry := range w.All() {
		p.PrintEntry(entry)
		report.Add(entry)
	}
	if a.cfg.ShowProgress && !a.cfg.Quiet {
		fmt.Fprintln(a.Errors)
	}

	if err := p.Finalize(w.Truncated()); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	if a.cfg.OutputFile != "" {
		lockCtx, cancel := context.WithTimeout(context.Background(), outputLockTimeout)
		defer cancel()
		if err := filelock.LockAndWrite(lockCtx, a.cfg.OutputFile, buf.Bytes()); err != nil {
			return fmt.Errorf("app: writing output: %w", err)
		}
		a.infoLog("Wrote %d entries to %s", p.GetCount(), a.cfg.OutputFile)
	}

	report.Truncated = w.Truncated()
	report.Warnings = len(w.Matcher().Warnings())
	report.Duration = time.Since(startTime)
	summary.DisplayResults(a.log, report, a.cfg.Quiet)

	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, w.Skipped(), a.Errors, a.cfg.Quiet)
	}

	if err := w.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("app: timeout of %v reached after %d entries: %w", a.cfg.Timeout, w.Count(), err)
		}
		return fmt.Errorf("app: walk interrupted: %w", err)
	}
	return nil
}

// Check reports, for each path, whether it is ignored and which rule decided.
// Ignore files are read from root down to each path's parent directory.
// Output lines follow "source:line:pattern<TAB>path"; unmatched paths print "::<TAB>path".
func (a *App) Check(root string, paths []string) (int, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return 0, fmt.Errorf("app: failed to get absolute path for '%s': %w", root, err)
	}
	info, err := a.fs.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("app: %w: %s", walker.ErrRootNotFound, absRoot)
		}
		return 0, fmt.Errorf("app: could not access root '%s': %w", absRoot, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("app: %w: %s", walker.ErrRootNotDir, absRoot)
	}

	matcher, err := ignore.New(absRoot,
		ignore.WithLogger(a.log),
		ignore.WithGitIgnore(true),
		ignore.WithHiddenIgnore(a.cfg.IgnoreHidden),
		ignore.WithCaseSensitive(a.cfg.CaseSensitive),
		ignore.WithCustomRules(a.cfg.CustomPatterns()),
		ignore.WithWarningHandler(func(w ignore.Warning) {
			a.log.Warn("Ignore file %s", w)
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("app: %w", err)
	}

	loaded := make(map[string]struct{})
	ignored := 0
	for _, p := range paths {
		target := p
		if !filepath.IsAbs(target) {
			target = filepath.Join(absRoot, p)
		}
		target = filepath.Clean(target)

		rel, err := filepath.Rel(absRoot, target)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			a.log.Warn("Skipping %q: not inside %s", p, absRoot)
			continue
		}

		for _, dir := range ancestorDirs(absRoot, filepath.Dir(target)) {
			if _, ok := loaded[dir]; ok {
				continue
			}
			loaded[dir] = struct{}{}
			a.loadIgnoreFiles(matcher, absRoot, dir)
		}

		isDir := strings.HasSuffix(p, "/")
		if fi, err := a.fs.Stat(target); err == nil {
			isDir = fi.IsDir()
		}

		result := matcher.Explain(target, isDir)
		if result.Matched {
			fmt.Fprintf(a.Output, "%s:%s\t%s\n", result.Rule.Location(), result.Rule.Pattern, p)
		} else {
			fmt.Fprintf(a.Output, "::\t%s\n", p)
		}
		if result.Ignored {
			ignored++
		}
	}
	return ignored, nil
}

// loadIgnoreFiles registers dir's ignore files, in configured name order
func (a *App) loadIgnoreFiles(matcher *ignore.IgnoreMatcher, root, dir string) {
	for _, name := range a.cfg.IgnoreFiles {
		file := filepath.Join(dir, name)
		data, err := a.fs.ReadFile(file)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				a.log.Warn("Cannot read ignore file %q: %v", file, err)
			}
			continue
		}
		source, _ := filepath.Rel(root, file)
		matcher.AddPatterns(dir, filepath.ToSlash(source), data)
	}
}

// ancestorDirs lists root, then every directory down to and including dir
func ancestorDirs(root, dir string) []string {
	var chain []string
	for d := dir; ; d = filepath.Dir(d) {
		chain = append(chain, d)
		if d == root || d == filepath.Dir(d) {
			break
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Lint prints every warning found in the given ignore files and returns
// ErrLintWarnings when there was at least one.
func (a *App) Lint(files []string) (int, error) {
	total := 0
	for _, file := range files {
		data, err := a.fs.ReadFile(file)
		if err != nil {
			return total, fmt.Errorf("app: failed to read %s: %w", file, err)
		}
		warnings := ignore.Lint(file, data)
		for _, w := range warnings {
			fmt.Fprintln(a.Output, w.String())
		}
		if len(warnings) == 0 {
			a.infoLog("%s: ok", file)
		}
		total += len(warnings)
	}

	if total > 0 {
		return total, fmt.Errorf("app: %d warning(s): %w", total, ErrLintWarnings)
	}
	return 0, nil
}
