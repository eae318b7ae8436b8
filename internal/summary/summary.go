// Package summary handles display of walk results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bethropolis/dir-walker/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// Report accumulates what a walk produced
type Report struct {
	Entries   int
	ByType    map[walker.EntryType]int
	Truncated bool
	Duration  time.Duration
	Warnings  int
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{ByType: make(map[walker.EntryType]int)}
}

// Add counts one yielded entry
func (r *Report) Add(entry walker.Entry) {
	r.Entries++
	r.ByType[entry.Type]++
}

// Breakdown renders the per-type counts, e.g. "3 files, 1 directory"
func (r *Report) Breakdown() string {
	types := make([]string, 0, len(r.ByType))
	for t := range r.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		n := r.ByType[walker.EntryType(t)]
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(t, n)))
	}
	return strings.Join(parts, ", ")
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	return word + "s"
}

// DisplayResults shows the end results of a walk
func DisplayResults(logger Logger, report *Report, quiet bool) {
	if quiet {
		return
	}
	if report.Entries == 0 {
		logger.Info("No entries found.")
	} else {
		logger.Info("Found %d entries (%s).", report.Entries, report.Breakdown())
	}
	if report.Truncated {
		logger.Info("Entry budget reached; more entries were left unvisited.")
	}
	if report.Warnings > 0 {
		logger.Info("%d ignore pattern warning(s) were reported.", report.Warnings)
	}
	logger.Info("Walk complete in %v.", report.Duration.Round(time.Millisecond))
}

// DisplaySkippedItems formats and prints information about skipped items,
// followed by a count per reason.
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) == 0 {
		infoLog("No items were skipped.")
		infoLog("--- End Skipped Items ---")
		return
	}

	items := make([]walker.SkippedItem, len(skippedItems))
	copy(items, skippedItems)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})

	byReason := make(map[walker.SkippedReason]int)
	for _, item := range items {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = "DIR " // aligned with FILE
		}
		fmt.Fprintf(output, "Skipped %s: %-50s [%s]\n", typeStr, item.Path, item.Reason)
		byReason[item.Reason]++
	}

	reasons := make([]string, 0, len(byReason))
	for reason := range byReason {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(output, "%6d  %s\n", byReason[walker.SkippedReason(reason)], reason)
	}
	infoLog("--- End Skipped Items ---")
}
