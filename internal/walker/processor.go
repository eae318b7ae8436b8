package walker

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// process evaluates one dequeued item: resolves symlinks, lists directories
// (registering their ignore files) and decides whether the item is yielded.
func (w *Walker) process(item *queueItem) (Entry, bool) {
	rel := w.rel(item.path)

	if w.opts.MaxDepth > 0 && item.depth > w.opts.MaxDepth {
		w.tracker.Track(rel, ReasonDepthLimit, item.info.IsDir())
		return Entry{}, false
	}

	info := item.info
	if info.Mode()&fs.ModeSymlink != 0 && w.follow {
		target, err := w.fs.Stat(item.path)
		if err != nil {
			w.log.Debug("Walker: Cannot follow symlink %q: %v", rel, err)
			w.tracker.Track(rel, ReasonSkippedLinkError, false)
			return Entry{}, false
		}
		info = target
	}

	key := item.path
	if info.IsDir() && w.follow {
		real, err := w.fs.RealPath(item.path)
		if err != nil {
			w.log.Debug("Walker: Cannot resolve %q: %v", rel, err)
			w.tracker.Track(rel, ReasonSkippedLinkError, true)
			return Entry{}, false
		}
		key = real
	}
	if _, seen := w.visited[key]; seen {
		w.log.Debug("Walker: %q already visited as %s", rel, key)
		w.tracker.Track(rel, ReasonSymlinkCycle, info.IsDir())
		return Entry{}, false
	}
	w.visited[key] = struct{}{}

	if info.IsDir() {
		return w.processDir(item, rel, info)
	}
	return w.processOther(item, rel, info)
}

// processDir lists a directory unless it can be pruned, then decides whether
// the directory itself is a result. Only empty directories (when enabled) and
// directories sitting exactly at the depth limit are yielded; the root never is.
func (w *Walker) processDir(item *queueItem, rel string, info fs.FileInfo) (Entry, bool) {
	isRoot := item.depth == 0
	ignored := !isRoot && w.matcher.ShouldIgnore(item.path, true)
	atLimit := w.opts.MaxDepth > 0 && item.depth >= w.opts.MaxDepth

	children := 0
	if !atLimit {
		if ignored && !w.matcher.CouldContainAllowed(item.path) {
			w.log.Debug("Walker: Pruned %q, nothing below it can be re-included", rel)
			w.tracker.Track(rel, ReasonPrunedSubtree, true)
			return Entry{}, false
		}

		n, ok := w.enumerate(item, rel)
		if !ok {
			return Entry{}, false
		}
		children = n
	}

	if isRoot {
		return Entry{}, false
	}
	if ignored {
		w.tracker.Track(rel, ReasonIgnoredRule, true)
		return Entry{}, false
	}
	if atLimit || (children == 0 && w.opts.IncludeEmptyDirs) {
		if !w.matchesFilter(rel) {
			w.tracker.Track(rel, ReasonFilteredGlob, true)
			return Entry{}, false
		}
		return Entry{Path: rel, Type: TypeDirectory, Size: info.Size()}, true
	}
	if children == 0 {
		w.tracker.Track(rel, ReasonEmptyDirectory, true)
	}
	return Entry{}, false
}

// enumerate lists a directory in two phases. First every child is stat'ed and
// any ignore file among them is registered with the matcher; only then are
// the children queued, so no child is ever evaluated before its directory's
// rules are known. It returns the number of children queued.
func (w *Walker) enumerate(item *queueItem, rel string) (int, bool) {
	names, err := w.fs.ReadDirNames(item.path)
	if err != nil {
		reason := ReasonSkippedReadDir
		if errors.Is(err, fs.ErrPermission) {
			reason = ReasonSkippedPermError
		}
		w.log.Warn("Walker: Cannot list %q: %v", displayPath(rel), err)
		w.tracker.Track(rel, reason, true)
		return 0, false
	}
	w.stats.ListedDirs++

	children := make([]*queueItem, 0, len(names))
	for _, name := range names {
		childPath := filepath.Join(item.path, name)
		childInfo, err := w.fs.Lstat(childPath)
		if err != nil {
			// deleted between listing and stat, or unreadable
			w.log.Debug("Walker: Cannot stat %q: %v", childPath, err)
			w.tracker.Track(w.rel(childPath), ReasonSkippedInfoError, false)
			continue
		}
		if _, isIgnoreFile := w.ignoreNames[name]; isIgnoreFile && !childInfo.IsDir() {
			w.loadIgnoreFile(item.path, childPath)
		}
		children = append(children, &queueItem{path: childPath, depth: item.depth + 1, info: childInfo})
	}

	for _, child := range children {
		w.queue.Enqueue(child)
	}
	return len(children), true
}

// loadIgnoreFile reads one ignore file and scopes its rules to dir
func (w *Walker) loadIgnoreFile(dir, file string) {
	source := w.rel(file)
	data, err := w.fs.ReadFile(file)
	if err != nil {
		w.log.Warn("Walker: Cannot read ignore file %q: %v", source, err)
		w.tracker.Track(source, ReasonIgnoreFileError, false)
		return
	}

	warnings := w.matcher.AddPatterns(dir, source, data)
	for _, warning := range warnings {
		w.log.Warn("Ignore file %s", warning)
	}
}

// processOther decides whether a file (or any non-directory) is yielded
func (w *Walker) processOther(item *queueItem, rel string, info fs.FileInfo) (Entry, bool) {
	if w.matcher.ShouldIgnore(item.path, false) {
		w.tracker.Track(rel, ReasonIgnoredRule, false)
		return Entry{}, false
	}
	if !w.matchesFilter(rel) {
		w.tracker.Track(rel, ReasonFilteredGlob, false)
		return Entry{}, false
	}
	return Entry{Path: rel, Type: entryTypeOf(info.Mode()), Size: info.Size()}, true
}

// pendingCouldYield reports whether anything left in the queue might still be
// yielded. Every queued item's ancestors have been listed, so its rules are
// final.
func (w *Walker) pendingCouldYield() bool {
	for _, v := range w.queue.Values() {
		item := v.(*queueItem)
		if w.opts.MaxDepth > 0 && item.depth > w.opts.MaxDepth {
			continue
		}
		mode := item.info.Mode()
		if mode&fs.ModeSymlink != 0 && w.follow {
			return true
		}
		if mode.IsDir() {
			if !w.matcher.ShouldIgnore(item.path, true) || w.matcher.CouldContainAllowed(item.path) {
				return true
			}
			continue
		}
		if !w.matcher.ShouldIgnore(item.path, false) && w.matchesFilter(w.rel(item.path)) {
			return true
		}
	}
	return false
}

// matchesFilter reports whether rel passes the configured globs
func (w *Walker) matchesFilter(rel string) bool {
	if len(w.opts.Filters) == 0 {
		return true
	}
	for _, pattern := range w.opts.Filters {
		name := rel
		if !strings.Contains(pattern, "/") {
			name = path.Base(rel)
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// entryTypeOf maps a file mode to an EntryType
func entryTypeOf(mode fs.FileMode) EntryType {
	switch {
	case mode.IsRegular():
		return TypeFile
	case mode.IsDir():
		return TypeDirectory
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	case mode&fs.ModeNamedPipe != 0:
		return TypeFIFO
	case mode&fs.ModeSocket != 0:
		return TypeSocket
	case mode&fs.ModeCharDevice != 0:
		return TypeCharDevice
	case mode&fs.ModeDevice != 0:
		return TypeBlockDevice
	default:
		return TypeUnknown
	}
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
