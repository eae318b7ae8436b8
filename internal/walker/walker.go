package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/google/uuid"

	"github.com/bethropolis/dir-walker/internal/fsys"
	"github.com/bethropolis/dir-walker/internal/ignore"
	"github.com/bethropolis/dir-walker/internal/utils"
)

var (
	// ErrRootNotFound is returned by New when the root does not exist.
	ErrRootNotFound = errors.New("root directory not found")
	// ErrRootNotDir is returned by New when the root is not a directory.
	ErrRootNotDir = errors.New("root is not a directory")
	// ErrInvalidFilter is returned by New for a malformed filter glob.
	ErrInvalidFilter = errors.New("invalid filter pattern")
)

// Walker enumerates a directory tree breadth-first, one entry per call to Next.
//
// All state (queue, visited set, ignore rules) belongs to the Walker, so
// independent walks can run concurrently. A single Walker is not safe for
// concurrent use and cannot be restarted.
type Walker struct {
	root    string
	id      string
	opts    WalkOptions
	fs      fsys.FS
	log     utils.Logger
	matcher *ignore.IgnoreMatcher

	queue       *linkedlistqueue.Queue
	visited     map[string]struct{}
	ignoreNames map[string]struct{}
	follow      bool
	tracker     *SkippedTracker

	current   Entry
	stats     ProgressStats
	done      bool
	truncated bool
	err       error
}

// New validates the root and prepares a walk. A missing root or one that is
// not a directory is a fatal error; nothing is yielded in that case.
func New(rootDir string, opts ...Option) (*Walker, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: failed to get absolute path for '%s': %w", rootDir, err)
	}

	info, err := options.FS.Stat(absRootDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("walker: %w: %s", ErrRootNotFound, absRootDir)
		}
		return nil, fmt.Errorf("walker: could not access root '%s': %w", absRootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: %w: %s", ErrRootNotDir, absRootDir)
	}

	for _, pattern := range options.Filters {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("walker: %w: %q", ErrInvalidFilter, pattern)
		}
	}

	id := uuid.NewString()[:8]
	log := utils.WithPrefix(options.Logger, "walk "+id)

	matcherOpts := append([]ignore.Option{ignore.WithLogger(log), ignore.WithGitIgnore(true)}, options.MatcherOptions...)
	matcher, err := ignore.New(absRootDir, matcherOpts...)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}

	w := &Walker{
		root:        absRootDir,
		id:          id,
		opts:        options,
		fs:          options.FS,
		log:         log,
		matcher:     matcher,
		queue:       linkedlistqueue.New(),
		visited:     make(map[string]struct{}),
		ignoreNames: make(map[string]struct{}, len(options.IgnoreFileNames)),
		follow:      options.FollowSymlinks && SymlinksSupported(),
		tracker:     NewSkippedTracker(64),
	}
	for _, name := range options.IgnoreFileNames {
		w.ignoreNames[name] = struct{}{}
	}
	if options.FollowSymlinks && !w.follow {
		log.Warn("Symlink following is not supported on this platform; symlinks are reported as entries")
	}

	log.Debug("walker.New: root=%s maxDepth=%d maxEntries=%d follow=%v emptyDirs=%v ignoreFiles=%v",
		absRootDir, options.MaxDepth, options.MaxEntries, w.follow, options.IncludeEmptyDirs, options.IgnoreFileNames)

	w.queue.Enqueue(&queueItem{path: absRootDir, depth: 0, info: info})
	return w, nil
}

// Next advances to the next entry. It returns false when the walk is over:
// the queue is exhausted, the entry budget is spent or the context is done.
func (w *Walker) Next() bool {
	for !w.done {
		if err := w.opts.Context.Err(); err != nil {
			w.log.Debug("Walker: context done after %d entries: %v", w.stats.Yielded, err)
			w.err = err
			w.finish()
			break
		}
		if w.opts.MaxEntries > 0 && int(w.stats.Yielded) >= w.opts.MaxEntries {
			w.truncated = w.pendingCouldYield()
			w.log.Debug("Walker: entry budget of %d reached (truncated: %v)", w.opts.MaxEntries, w.truncated)
			w.finish()
			break
		}

		v, ok := w.queue.Dequeue()
		if !ok {
			w.finish()
			break
		}
		item := v.(*queueItem)
		w.stats.Dequeued++

		entry, yield := w.process(item)
		if yield {
			w.stats.Yielded++
			w.current = entry
		}
		w.report(item)
		if yield {
			return true
		}
	}
	return false
}

// Entry returns the entry produced by the last successful call to Next
func (w *Walker) Entry() Entry {
	return w.current
}

// Err returns the context error that stopped the walk, if any.
// Per-entry failures are never returned; see Skipped.
func (w *Walker) Err() error {
	return w.err
}

// Truncated reports whether the entry budget stopped the walk while queued
// entries could still have been yielded. Queued files are decided exactly;
// a queued directory counts unless it is ignored and prunable.
func (w *Walker) Truncated() bool {
	return w.truncated
}

// Count returns the number of entries yielded so far
func (w *Walker) Count() int {
	return int(w.stats.Yielded)
}

// Skipped returns every entry that was evaluated but not yielded, with a reason
func (w *Walker) Skipped() []SkippedItem {
	return w.tracker.Items()
}

// Matcher exposes the walk's ignore rules
func (w *Walker) Matcher() *ignore.IgnoreMatcher {
	return w.matcher
}

// Root returns the absolute walk root
func (w *Walker) Root() string {
	return w.root
}

// ID returns the short identifier tagged on this walk's log lines
func (w *Walker) ID() string {
	return w.id
}

// All returns the remaining entries as a single-use sequence
func (w *Walker) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for w.Next() {
			if !yield(w.Entry()) {
				return
			}
		}
	}
}

func (w *Walker) finish() {
	w.done = true
	w.visited = nil
	w.queue.Clear()
}

func (w *Walker) report(item *queueItem) {
	if w.opts.ProgressFn == nil {
		return
	}
	stats := w.stats
	stats.Skipped = int64(w.tracker.Len())
	stats.QueueLen = w.queue.Size()
	stats.CurrentPath = w.rel(item.path)
	w.opts.ProgressFn(stats)
}

// rel returns the forward-slash path of p relative to the root
func (w *Walker) rel(p string) string {
	r, err := filepath.Rel(w.root, p)
	if err != nil || r == "." {
		return ""
	}
	return filepath.ToSlash(r)
}

// Walk traverses rootDir and calls walkFn for every entry.
// It returns the skipped items and any fatal error.
func Walk(rootDir string, walkFn WalkFunc, opts ...Option) ([]SkippedItem, error) {
	w, err := New(rootDir, opts...)
	if err != nil {
		return nil, err
	}

	for w.Next() {
		if err := walkFn(w.Entry()); err != nil {
			if errors.Is(err, fs.SkipAll) {
				return w.Skipped(), nil
			}
			return w.Skipped(), fmt.Errorf("walker: callback failed at %q: %w", w.Entry().Path, err)
		}
	}
	return w.Skipped(), w.Err()
}

// Collect walks rootDir and returns every entry in breadth-first order along
// with whether the entry budget cut the walk short.
func Collect(rootDir string, opts ...Option) ([]Entry, bool, error) {
	w, err := New(rootDir, opts...)
	if err != nil {
		return nil, false, err
	}

	var entries []Entry
	for entry := range w.All() {
		entries = append(entries, entry)
	}
	return entries, w.Truncated(), w.Err()
}
