package ignore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bethropolis/dir-walker/internal/utils"
)

// IgnoreMatcher holds every rule discovered during one walk.
//
// Rule sets are appended in discovery order and never removed or reordered.
// An IgnoreMatcher is owned by a single walk and is not safe for concurrent use.
type IgnoreMatcher struct {
	rootDir string
	sets    []*RuleSet
	byScope map[string][]*RuleSet
	nextSeq int

	warnings []Warning

	// Configuration flags
	ignoreHidden   bool
	ignoreGit      bool
	caseSensitive  bool
	customPatterns []string
	warnHandler    WarningHandler
	logger         utils.Logger
}

// Rule is one compiled ignore pattern.
type Rule struct {
	// Pattern is the line as written (trailing whitespace trimmed).
	Pattern string
	// Source names the file the rule came from.
	Source string
	// Line is the 1-indexed line number in Source.
	Line int
	// Scope is the directory the rule applies beneath (absolute, forward slashes).
	Scope string

	Negate   bool
	DirOnly  bool
	Anchored bool

	exact   *regexp.Regexp
	contain *regexp.Regexp
	seq     int
}

// RuleSet is the rules of one ignore file, in line order.
type RuleSet struct {
	Scope  string
	Source string
	Rules  []*Rule
}

// Warning describes a pattern line that was skipped or looks suspicious.
type Warning struct {
	Source  string `json:"source"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
	Pattern string `json:"pattern"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	pos := fmt.Sprintf("%s:%d", w.Source, w.Line)
	if w.Column > 0 {
		pos = fmt.Sprintf("%s:%d", pos, w.Column)
	}
	if w.Pattern == "" {
		return fmt.Sprintf("%s: %s", pos, w.Message)
	}
	return fmt.Sprintf("%s: %s (%q)", pos, w.Message, w.Pattern)
}

// WarningHandler receives warnings as rule sets are added.
type WarningHandler func(Warning)

// MatchResult reports which rule decided a path.
type MatchResult struct {
	// Matched is true when at least one rule matched.
	Matched bool
	// Ignored is the final decision.
	Ignored bool
	// Negated is true when the deciding rule re-included the path.
	Negated bool
	// Rule is the last matching rule, nil when nothing matched.
	Rule *Rule
}

// Config holds configuration options for the ignore matcher
type Config struct {
	RootDir       string
	IgnoreHidden  bool
	IgnoreGit     bool
	CaseSensitive bool
	CustomRules   []string
	Logger        utils.Logger
}

// String returns a debug representation of a rule.
func (r *Rule) String() string {
	var flags []string
	if r.Negate {
		flags = append(flags, "negate")
	}
	if r.DirOnly {
		flags = append(flags, "dirOnly")
	}
	if r.Anchored {
		flags = append(flags, "anchored")
	}

	s := r.Pattern
	if len(flags) > 0 {
		s += " [" + strings.Join(flags, ",") + "]"
	}
	return s + " @" + r.Scope
}

// Location returns "source:line" for the rule.
func (r *Rule) Location() string {
	return fmt.Sprintf("%s:%d", r.Source, r.Line)
}
