package printer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/dir-walker/internal/walker"
)

var sampleEntries = []walker.Entry{
	{Path: "README.md", Type: walker.TypeFile, Size: 12},
	{Path: "docs", Type: walker.TypeDirectory},
	{Path: "link", Type: walker.TypeSymlink},
	{Path: "src/main.go", Type: walker.TypeFile, Size: 40},
	{Path: "src/pkg/util.go", Type: walker.TypeFile, Size: 7},
}

func render(t *testing.T, format Format, entries []walker.Entry, truncated bool) string {
	t.Helper()
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false).WithFormat(format).WithRootLabel("project")
	for _, e := range entries {
		p.PrintEntry(e)
	}
	require.NoError(t, p.Finalize(truncated))
	assert.Equal(t, int64(len(entries)), p.GetCount())
	return buf.String()
}

func TestTextFormat(t *testing.T) {
	got := render(t, FormatText, sampleEntries, false)
	want := "README.md\ndocs/\nlink\nsrc/main.go\nsrc/pkg/util.go\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("text output mismatch (-want +got):\n%s", diff)
	}

	got = render(t, FormatText, sampleEntries[:2], true)
	assert.Equal(t, "README.md\ndocs/\n... truncated after 2 entries\n", got)
}

func TestTextFormatColors(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(true)
	p.PrintEntry(walker.Entry{Path: "docs", Type: walker.TypeDirectory})
	p.PrintEntry(walker.Entry{Path: "a.txt", Type: walker.TypeFile})
	require.NoError(t, p.Finalize(false))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "\x1b[")
	assert.Contains(t, lines[0], "docs/")
	assert.Equal(t, "a.txt", lines[1], "regular files are never colored")
}

func TestJSONFormat(t *testing.T) {
	var doc struct {
		Root    string      `json:"root"`
		Entries []jsonEntry `json:"entries"`
		Count   int         `json:"count"`
		Trunc   bool        `json:"truncated"`
	}

	require.NoError(t, json.Unmarshal([]byte(render(t, FormatJSON, sampleEntries, true)), &doc))
	assert.Equal(t, "project", doc.Root)
	assert.Equal(t, 5, doc.Count)
	assert.True(t, doc.Trunc)
	require.Len(t, doc.Entries, 5)
	assert.Equal(t, jsonEntry{Path: "src/main.go", Type: "file", Size: 40}, doc.Entries[3])
	assert.Equal(t, "directory", doc.Entries[1].Type)

	doc.Entries = nil
	require.NoError(t, json.Unmarshal([]byte(render(t, FormatJSON, nil, false)), &doc))
	assert.Empty(t, doc.Entries)
	assert.Zero(t, doc.Count)
	assert.False(t, doc.Trunc)
}

func TestMarkdownFormat(t *testing.T) {
	got := render(t, FormatMarkdown, sampleEntries[:2], true)
	want := "# project\n\n- `README.md`\n- `docs/`\n\n> Output truncated after 2 entries.\n"
	assert.Equal(t, want, got)

	assert.Equal(t, "# project\n\n_No entries._\n", render(t, FormatMarkdown, nil, false))
}

func TestTreeFormat(t *testing.T) {
	got := render(t, FormatTree, sampleEntries, false)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	assert.Equal(t, "project", lines[0])
	var labels []string
	for _, line := range lines[1:] {
		labels = append(labels, strings.TrimLeft(line, "│├└─  "))
	}
	assert.Equal(t, []string{"README.md", "docs/", "link", "src/", "main.go", "pkg/", "util.go"}, labels)
	assert.NotContains(t, got, "truncated")

	got = render(t, FormatTree, sampleEntries[:1], true)
	assert.True(t, strings.HasSuffix(got, "... truncated after 1 entries\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorsSurfaceFromFinalize(t *testing.T) {
	p := New().WithOutput(failingWriter{}).WithColors(false)
	p.PrintEntry(walker.Entry{Path: "a", Type: walker.TypeFile})
	err := p.Finalize(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
