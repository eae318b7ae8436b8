package setup

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/dir-walker/internal/fsys"
	"github.com/bethropolis/dir-walker/internal/walker"
)

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Debug(format string, args ...interface{}) {}
func (r *recordingLogger) Info(format string, args ...interface{})  {}
func (r *recordingLogger) Warn(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Error(format string, args ...interface{}) {}

func memProject(t *testing.T) (fsys.FS, string) {
	t.Helper()
	root := filepath.FromSlash("/work")
	f := fsys.NewMemFS()
	for rel, content := range map[string]string{
		".ignore":        "*.tmp\n",
		".gitignore":     "*.log\n",
		".env":           "secret",
		"a.go":           "package a",
		"a.tmp":          "x",
		"a.log":          "x",
		"notes.BAK":      "x",
		"deep/er/x.go":   "package er",
		"deep/er/y.txt":  "y",
		"deep/er/z/z.go": "package z",
	} {
		require.NoError(t, fsys.WriteFile(f, filepath.Join(root, filepath.FromSlash(rel)), []byte(content)))
	}
	return f, root
}

func TestConfigureWalkerAppliesSettings(t *testing.T) {
	f, root := memProject(t)
	var infos []string
	infoLog := func(format string, args ...interface{}) {
		infos = append(infos, fmt.Sprintf(format, args...))
	}

	opts := ConfigureWalker(WalkerConfig{
		IgnoreFiles:    []string{".ignore"},
		IgnoreHidden:   true,
		CustomPatterns: []string{"*.bak"},
		Filters:        []string{"*.go", "*.log"},
		MaxDepth:       3,
	}, infoLog)

	entries, _, err := walker.Collect(root, append(opts, walker.WithFS(f))...)
	require.NoError(t, err)
	var got []string
	for _, e := range entries {
		got = append(got, e.Path)
	}
	// .gitignore is not read, hidden files are dropped, *.bak matches case-insensitively
	assert.Equal(t, []string{"a.go", "a.log", "deep/er/x.go"}, got)
	assert.Contains(t, infos, "Reading ignore files named: .ignore")
	assert.Contains(t, infos, "Descending at most 3 level(s).")
}

func TestConfigureWalkerCaseSensitiveAndBudget(t *testing.T) {
	f, root := memProject(t)
	opts := ConfigureWalker(WalkerConfig{
		CaseSensitive:  true,
		CustomPatterns: []string{"*.bak"},
		MaxEntries:     3,
	}, func(string, ...interface{}) {})

	entries, truncated, err := walker.Collect(root, append(opts, walker.WithFS(f))...)
	require.NoError(t, err)
	assert.True(t, truncated)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{".env", ".gitignore", ".ignore"},
		[]string{entries[0].Path, entries[1].Path, entries[2].Path})

	entries, _, err = walker.Collect(root, append(ConfigureWalker(WalkerConfig{
		CaseSensitive:  true,
		CustomPatterns: []string{"*.bak"},
	}, func(string, ...interface{}) {}), walker.WithFS(f))...)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Path)
	}
	assert.Contains(t, names, "notes.BAK")
	assert.NotContains(t, names, "a.log")
}

func TestConfigureWalkerWarnsOnBadCustomPatterns(t *testing.T) {
	log := &recordingLogger{}
	ConfigureWalker(WalkerConfig{
		CustomPatterns: []string{"ok/", "[oops"},
		Logger:         log,
	}, func(string, ...interface{}) {})

	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "<custom>:2")
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	report := ProgressPrinter(&buf)

	report(walker.ProgressStats{Yielded: 3, Skipped: 1, QueueLen: 7, CurrentPath: "src/main.go"})
	assert.True(t, strings.HasPrefix(buf.String(), "\rWalking: src/main.go"))
	assert.Contains(t, buf.String(), "Found: 3 | Skipped: 1 | Queued: 7")

	buf.Reset()
	report(walker.ProgressStats{CurrentPath: strings.Repeat("d/", 30) + "file.txt"})
	assert.Contains(t, buf.String(), "...")
	assert.Contains(t, buf.String(), "file.txt")

	buf.Reset()
	report(walker.ProgressStats{})
	assert.True(t, strings.HasPrefix(buf.String(), "\rWalking: . "))
}

func TestProgressRequiresOutput(t *testing.T) {
	f, root := memProject(t)
	var buf bytes.Buffer
	opts := ConfigureWalker(WalkerConfig{ShowProgress: true, ProgressOutput: &buf}, func(string, ...interface{}) {})
	_, _, err := walker.Collect(root, append(opts, walker.WithFS(f))...)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Walking:")

	buf.Reset()
	opts = ConfigureWalker(WalkerConfig{ShowProgress: true, ProgressOutput: &buf, Quiet: true}, func(string, ...interface{}) {})
	_, _, err = walker.Collect(root, append(opts, walker.WithFS(f))...)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
