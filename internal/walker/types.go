// Package walker handles breadth-first, ignore-aware directory traversal
package walker

import (
	"io/fs"
	"sync"
)

// EntryType classifies a yielded entry
type EntryType string

const (
	TypeFile        EntryType = "file"
	TypeDirectory   EntryType = "directory"
	TypeBlockDevice EntryType = "block-device"
	TypeCharDevice  EntryType = "char-device"
	TypeFIFO        EntryType = "fifo"
	TypeSocket      EntryType = "socket"
	TypeSymlink     EntryType = "symlink"
	TypeUnknown     EntryType = "unknown"
)

// Entry is one walk result
type Entry struct {
	// Path is relative to the walk root and always uses forward slashes.
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	Size int64     `json:"size"`
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Type == TypeDirectory
}

// WalkFunc is the callback function type used by Walk.
// Returning fs.SkipAll stops the walk without an error.
type WalkFunc func(entry Entry) error

// queueItem is a discovered entry waiting to be evaluated
type queueItem struct {
	path  string
	depth int
	info  fs.FileInfo
}

// SkippedReason clarifies why a file/directory was not yielded.
type SkippedReason string

const (
	ReasonIgnoredRule      SkippedReason = "Ignored (Gitignore/Custom Rule)"
	ReasonPrunedSubtree    SkippedReason = "Pruned (Ignored Directory Not Listed)"
	ReasonFilteredGlob     SkippedReason = "Filtered (Glob Mismatch)"
	ReasonEmptyDirectory   SkippedReason = "Skipped (Empty Directory)"
	ReasonDepthLimit       SkippedReason = "Skipped (Depth Limit)"
	ReasonSymlinkCycle     SkippedReason = "Skipped (Already Visited)"
	ReasonSkippedPermError SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedReadDir   SkippedReason = "Skipped (Read Dir Error)"
	ReasonSkippedInfoError SkippedReason = "Skipped (File Info Error)"
	ReasonSkippedLinkError SkippedReason = "Skipped (Broken Symlink)"
	ReasonIgnoreFileError  SkippedReason = "Skipped (Ignore File Read Error)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// SkippedTracker is a struct to track skipped items
type SkippedTracker struct {
	items []SkippedItem
	mutex sync.Mutex
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// Items returns a copy of the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	out := make([]SkippedItem, len(st.items))
	copy(out, st.items)
	return out
}

// Len returns the number of tracked items
func (st *SkippedTracker) Len() int {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return len(st.items)
}
