package summary

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/dir-walker/internal/walker"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Info(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestReportBreakdown(t *testing.T) {
	r := NewReport()
	for _, e := range []walker.Entry{
		{Path: "a", Type: walker.TypeFile},
		{Path: "b", Type: walker.TypeFile},
		{Path: "c", Type: walker.TypeDirectory},
		{Path: "d", Type: walker.TypeSymlink},
		{Path: "e", Type: walker.TypeSymlink},
	} {
		r.Add(e)
	}
	assert.Equal(t, 5, r.Entries)
	assert.Equal(t, "1 directory, 2 files, 2 symlinks", r.Breakdown())

	r = NewReport()
	r.Add(walker.Entry{Path: "x", Type: walker.TypeDirectory})
	r.Add(walker.Entry{Path: "y", Type: walker.TypeDirectory})
	assert.Equal(t, "2 directories", r.Breakdown())
}

func TestDisplayResults(t *testing.T) {
	r := NewReport()
	r.Add(walker.Entry{Path: "a", Type: walker.TypeFile})
	r.Truncated = true
	r.Warnings = 2
	r.Duration = 1500 * time.Microsecond

	log := &recordingLogger{}
	DisplayResults(log, r, false)
	require.Len(t, log.lines, 4)
	assert.Equal(t, "Found 1 entries (1 file).", log.lines[0])
	assert.Contains(t, log.lines[1], "budget")
	assert.Contains(t, log.lines[2], "2 ignore pattern warning(s)")
	assert.Equal(t, "Walk complete in 2ms.", log.lines[3])

	quiet := &recordingLogger{}
	DisplayResults(quiet, r, true)
	assert.Empty(t, quiet.lines)

	empty := &recordingLogger{}
	DisplayResults(empty, NewReport(), false)
	assert.Equal(t, "No entries found.", empty.lines[0])
}

func TestDisplaySkippedItems(t *testing.T) {
	items := []walker.SkippedItem{
		{Path: "node_modules", Reason: walker.ReasonPrunedSubtree, IsDir: true},
		{Path: "app.log", Reason: walker.ReasonIgnoredRule},
		{Path: "b.log", Reason: walker.ReasonIgnoredRule},
	}

	var out bytes.Buffer
	log := &recordingLogger{}
	DisplaySkippedItems(log, items, &out, false)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Skipped FILE: app.log"))
	assert.True(t, strings.HasPrefix(lines[2], "Skipped DIR : node_modules"))
	assert.Contains(t, lines[2], string(walker.ReasonPrunedSubtree))
	assert.Equal(t, fmt.Sprintf("%6d  %s", 2, walker.ReasonIgnoredRule), lines[3])
	assert.Equal(t, fmt.Sprintf("%6d  %s", 1, walker.ReasonPrunedSubtree), lines[4])
	assert.Equal(t, "node_modules", items[0].Path, "input order is left untouched")
	assert.Equal(t, []string{"--- Skipped Items (3) ---", "--- End Skipped Items ---"}, log.lines)

	log = &recordingLogger{}
	out.Reset()
	DisplaySkippedItems(log, nil, &out, false)
	assert.Empty(t, out.String())
	assert.Contains(t, log.lines, "No items were skipped.")
}
