package ignore

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	errEmptyPattern      = errors.New("pattern is empty after processing")
	errTrailingBackslash = errors.New("trailing backslash is invalid (pattern never matches)")
	errUnterminatedClass = errors.New("unterminated character class")
)

// Compile turns one ignore-file line into a Rule scoped to scopeDir.
// Empty lines and comments return a nil rule and a nil error.
// Matching is case-insensitive; see WithCaseSensitive for the matcher option.
func Compile(scopeDir, line string) (*Rule, error) {
	return compileLine(normalizePath(scopeDir), line, 0, false)
}

func compileLine(scope, line string, lineNum int, caseSensitive bool) (*Rule, error) {
	line = trimTrailingWhitespace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	r := &Rule{Pattern: line, Line: lineNum, Scope: scope}

	// \! and \# stay escaped and are resolved by the glob translation
	body := line
	if strings.HasPrefix(body, "!") {
		r.Negate = true
		body = body[1:]
	}
	if strings.HasPrefix(body, "/") {
		r.Anchored = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "/") && !strings.HasSuffix(body, "\\/") {
		r.DirOnly = true
		body = body[:len(body)-1]
	}
	if body == "" {
		return nil, errEmptyPattern
	}

	segments, err := translateSegments(body)
	if err != nil {
		return nil, err
	}

	flags := "(?i)"
	if caseSensitive {
		flags = ""
	}
	base := flags + "^" + regexp.QuoteMeta(scope)

	var exact string
	if r.Anchored {
		exact = base + joinSegments(segments, withSlash(scope) != scope) + "$"
	} else {
		exact = base + slashUnlessRoot(scope) + "(?:.*/)?" + joinSegments(segments, false) + "$"
	}
	if r.exact, err = regexp.Compile(exact); err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	var contain string
	if r.Anchored {
		contain = base + prefixSegments(segments, withSlash(scope) == scope) + "$"
	} else if withSlash(scope) == scope {
		contain = base + ".*$"
	} else {
		contain = base + "(?:/.*)?$"
	}
	if r.contain, err = regexp.Compile(contain); err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	return r, nil
}

// slashUnlessRoot returns the separator that follows scope in a full path.
func slashUnlessRoot(scope string) string {
	if strings.HasSuffix(scope, "/") {
		return ""
	}
	return "/"
}

// joinSegments builds the regex for the pattern body. When leadingSlash is
// true the expression starts with the separator that follows the scope.
func joinSegments(segments []string, leadingSlash bool) string {
	var b strings.Builder
	needSep := leadingSlash
	for i, seg := range segments {
		sep := ""
		if needSep {
			sep = "/"
		}
		needSep = true

		if seg != "**" {
			b.WriteString(sep + seg)
			continue
		}
		if i == len(segments)-1 {
			b.WriteString(sep + ".*")
			continue
		}
		b.WriteString(sep + "(?:.*/)?")
		needSep = false
	}
	return b.String()
}

// prefixSegments builds an expression matching the scope and every directory
// on the path towards a location the anchored pattern could match.
func prefixSegments(segments []string, rootScope bool) string {
	var b strings.Builder
	open := 0
	for i, seg := range segments {
		sep := "/"
		if i == 0 && rootScope {
			sep = ""
		}
		if seg == "**" {
			b.WriteString("(?:" + sep + ".*)?")
			break
		}
		b.WriteString("(?:" + sep + seg)
		open++
	}
	b.WriteString(strings.Repeat(")?", open))
	return b.String()
}

// translateSegments splits a pattern body on unescaped slashes and translates
// every segment to a regular expression. A segment of exactly "**" is kept
// as-is for joinSegments and prefixSegments to expand.
func translateSegments(body string) ([]string, error) {
	var raw []string
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '/':
			raw = append(raw, body[start:i])
			start = i + 1
		}
	}
	raw = append(raw, body[start:])

	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg == "" {
			continue
		}
		if seg == "**" {
			if n := len(segments); n > 0 && segments[n-1] == "**" {
				continue
			}
			segments = append(segments, seg)
			continue
		}
		t, err := translateGlob(seg)
		if err != nil {
			return nil, err
		}
		segments = append(segments, t)
	}
	if len(segments) == 0 {
		return nil, errEmptyPattern
	}
	return segments, nil
}

// translateGlob converts one path segment of glob syntax into a regex fragment.
func translateGlob(seg string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		switch c {
		case '\\':
			if i+1 >= len(seg) {
				return "", errTrailingBackslash
			}
			i++
			b.WriteString(regexp.QuoteMeta(seg[i : i+1]))
		case '*':
			for i+1 < len(seg) && seg[i+1] == '*' {
				i++
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '[':
			end := classEnd(seg, i)
			if end < 0 {
				return "", errUnterminatedClass
			}
			b.WriteString(translateClass(seg[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(seg[i : i+1]))
		}
	}
	return b.String(), nil
}

// classEnd returns the index of the "]" closing the class opened at seg[open],
// or -1 when the class is unterminated.
func classEnd(seg string, open int) int {
	j := open + 1
	if j < len(seg) && (seg[j] == '!' || seg[j] == '^') {
		j++
	}
	if j < len(seg) && seg[j] == ']' {
		j++
	}
	for j < len(seg) && seg[j] != ']' {
		if seg[j] == '\\' {
			j++
		}
		j++
	}
	if j >= len(seg) {
		return -1
	}
	return j
}

// translateClass renders a bracket expression. Classes never match "/".
func translateClass(inner string) string {
	negate := false
	if strings.HasPrefix(inner, "!") || strings.HasPrefix(inner, "^") {
		negate = true
		inner = inner[1:]
	}
	if strings.HasPrefix(inner, "]") {
		inner = `\]` + inner[1:]
	}
	if negate {
		return "[^/" + inner + "]"
	}
	return "[" + inner + "]"
}

// Matches reports whether the rule's exact matcher applies to p. An ignore
// rule that matches a directory also matches everything inside it, so
// directory-only rules apply to files beneath a matched directory. A negation
// only re-includes the paths it matches itself.
func (r *Rule) Matches(p string, isDir bool) bool {
	if p == r.Scope || !isWithin(p, r.Scope) {
		return false
	}
	if r.exact.MatchString(p) && (isDir || !r.DirOnly) {
		return true
	}
	if r.Negate {
		return false
	}
	for dir := parentOf(p); dir != r.Scope && isWithin(dir, r.Scope); dir = parentOf(dir) {
		if r.exact.MatchString(dir) {
			return true
		}
	}
	return false
}

// MayContain reports whether something strictly under dir could be matched by
// this rule. It uses the looser containment matcher and errs towards true.
func (r *Rule) MayContain(dir string) bool {
	if r.Scope != dir && isWithin(r.Scope, dir) {
		return true
	}
	if !isWithin(dir, r.Scope) {
		return false
	}
	if r.contain.MatchString(dir) {
		return true
	}
	return r.Matches(dir, true)
}
