// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"sync/atomic"

	"github.com/disiqueira/gotree/v3"
	"github.com/fatih/color"

	"github.com/bethropolis/dir-walker/internal/walker"
)

// Format selects how entries are rendered
type Format string

// Supported formats
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTree     Format = "tree"
)

// Printer handles output formatting and writing to the configured output destination
type Printer struct {
	output    io.Writer
	count     atomic.Int64
	useColors bool
	format    Format
	rootLabel string
	started   bool
	tree      *visualTree
	err       error
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
		format:    FormatText,
		rootLabel: ".",
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output. Only the text format uses colors.
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithFormat selects the output format
func (p *Printer) WithFormat(format Format) *Printer {
	p.format = format
	return p
}

// WithRootLabel sets the heading used by the markdown and tree formats
func (p *Printer) WithRootLabel(label string) *Printer {
	p.rootLabel = label
	return p
}

// jsonEntry is the JSON shape of one result
type jsonEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// PrintEntry outputs one walk result
func (p *Printer) PrintEntry(entry walker.Entry) {
	p.count.Add(1)
	p.begin()

	switch p.format {
	case FormatJSON:
		if p.count.Load() > 1 {
			p.write(",\n")
		}
		data, err := json.MarshalIndent(jsonEntry{Path: entry.Path, Type: string(entry.Type), Size: entry.Size}, "    ", "  ")
		if err != nil {
			p.fail(fmt.Errorf("printer: marshal %q: %w", entry.Path, err))
			return
		}
		p.write("    %s", data)
	case FormatMarkdown:
		p.write("- `%s`\n", displayName(entry))
	case FormatTree:
		p.tree.insert(entry)
	default:
		p.write("%s\n", p.colorize(entry))
	}
}

// Finalize completes pending output and appends a notice when the walk was truncated.
func (p *Printer) Finalize(truncated bool) error {
	p.begin()
	n := p.count.Load()

	switch p.format {
	case FormatJSON:
		if n > 0 {
			p.write("\n")
		}
		p.write("  ],\n  \"count\": %d,\n  \"truncated\": %t\n}\n", n, truncated)
	case FormatMarkdown:
		if n == 0 {
			p.write("_No entries._\n")
		}
		if truncated {
			p.write("\n> Output truncated after %d entries.\n", n)
		}
	case FormatTree:
		p.write("%s", p.tree.render())
		if truncated {
			p.write("... truncated after %d entries\n", n)
		}
	default:
		if truncated {
			p.write("%s\n", p.paint(color.New(color.FgYellow), fmt.Sprintf("... truncated after %d entries", n)))
		}
	}
	return p.err
}

// GetCount returns the number of entries printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}

// begin writes the format's header once
func (p *Printer) begin() {
	if p.started {
		return
	}
	p.started = true

	switch p.format {
	case FormatJSON:
		root, _ := json.Marshal(p.rootLabel)
		p.write("{\n  \"root\": %s,\n  \"entries\": [\n", root)
	case FormatMarkdown:
		p.write("# %s\n\n", p.rootLabel)
	case FormatTree:
		p.tree = newVisualTree(p.rootLabel)
	}
}

func (p *Printer) colorize(entry walker.Entry) string {
	switch entry.Type {
	case walker.TypeDirectory:
		return p.paint(color.New(color.FgBlue, color.Bold), entry.Path+"/")
	case walker.TypeSymlink:
		return p.paint(color.New(color.FgCyan), entry.Path)
	case walker.TypeFile:
		return entry.Path
	default:
		return p.paint(color.New(color.FgMagenta), entry.Path)
	}
}

func (p *Printer) paint(c *color.Color, s string) string {
	if p.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (p *Printer) write(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.output, format, args...); err != nil {
		p.fail(fmt.Errorf("printer: write failed: %w", err))
	}
}

func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// displayName suffixes directories with "/"
func displayName(entry walker.Entry) string {
	if entry.IsDir() {
		return entry.Path + "/"
	}
	return entry.Path
}

// visualTree accumulates entries into a gotree, creating parent nodes on demand
type visualTree struct {
	root gotree.Tree
	dirs map[string]gotree.Tree
}

func newVisualTree(label string) *visualTree {
	return &visualTree{root: gotree.New(label), dirs: make(map[string]gotree.Tree)}
}

func (t *visualTree) dir(dirPath string) gotree.Tree {
	if dirPath == "." || dirPath == "" {
		return t.root
	}
	node, ok := t.dirs[dirPath]
	if !ok {
		node = t.dir(path.Dir(dirPath)).Add(path.Base(dirPath) + "/")
		t.dirs[dirPath] = node
	}
	return node
}

func (t *visualTree) insert(entry walker.Entry) {
	if entry.IsDir() {
		t.dir(entry.Path)
		return
	}
	t.dir(path.Dir(entry.Path)).Add(path.Base(entry.Path))
}

func (t *visualTree) render() string {
	return t.root.Print()
}
