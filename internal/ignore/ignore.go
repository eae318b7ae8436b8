// Package ignore compiles ignore-file text into ordered, directory-scoped
// rules and evaluates paths against them.
//
// Rules are evaluated in discovery order (a root ignore file before the ones
// found beneath it, each file in line order) and the last matching rule
// decides. A second, looser containment view of every rule lets a walker ask
// whether an ignored directory could still hold re-included paths, so fully
// excluded subtrees can be skipped without listing them.
//
// Configuration uses the functional options pattern.
package ignore

import (
	"bytes"
	"sort"

	"github.com/bethropolis/dir-walker/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// Lint reports every problem in an ignore file without building a matcher.
//
// Lines the compiler would skip are reported first; the text is then run
// through an independent gitignore parser and any position it rejects on a
// line not already reported is added with its column.
func Lint(source string, contents []byte) []Warning {
	contents = normalizeContent(contents)

	m := &IgnoreMatcher{byScope: make(map[string][]*RuleSet), logger: utils.NoopLogger{}}
	warnings := m.AddPatterns("/", source, contents)

	seen := make(map[int]bool, len(warnings))
	for _, w := range warnings {
		seen[w.Line] = true
	}

	gitignore.New(bytes.NewReader(contents), "/", func(e gitignore.Error) bool {
		pos := e.Position()
		if seen[pos.Line] {
			return true
		}
		seen[pos.Line] = true
		msg := e.Error()
		if u := e.Underlying(); u != nil {
			msg = u.Error()
		}
		warnings = append(warnings, Warning{
			Source:  source,
			Line:    pos.Line,
			Column:  pos.Column,
			Pattern: lineAt(contents, pos.Line),
			Message: msg,
		})
		return true
	})

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Line < warnings[j].Line
	})
	return warnings
}

// lineAt returns the 1-indexed line of contents, or "" when out of range.
func lineAt(contents []byte, n int) string {
	lines := bytes.Split(contents, []byte("\n"))
	if n < 1 || n > len(lines) {
		return ""
	}
	return string(bytes.TrimSpace(lines[n-1]))
}
