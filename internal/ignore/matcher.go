package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bethropolis/dir-walker/internal/utils"
)

// Sources used for rule sets that do not come from a file.
const (
	SourceInternal = "<internal>"
	SourceHidden   = "<hidden>"
	SourceCustom   = "<custom>"
)

// GitDirPattern keeps version-control metadata out of every walk.
const GitDirPattern = "/.git/"

// New creates and initializes an IgnoreMatcher rooted at rootDir
func New(rootDir string, opts ...Option) (*IgnoreMatcher, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", rootDir, err)
	}

	matcher := &IgnoreMatcher{
		rootDir: normalizePath(absRootDir),
		byScope: make(map[string][]*RuleSet),
		logger:  &utils.NoopLogger{},
	}

	for _, opt := range opts {
		opt(matcher)
	}

	matcher.init()
	return matcher, nil
}

// NewFromConfig creates an IgnoreMatcher from a Config struct
func NewFromConfig(cfg Config) (*IgnoreMatcher, error) {
	options := []Option{
		WithHiddenIgnore(cfg.IgnoreHidden),
		WithGitIgnore(cfg.IgnoreGit),
		WithCaseSensitive(cfg.CaseSensitive),
	}
	if len(cfg.CustomRules) > 0 {
		options = append(options, WithCustomRules(cfg.CustomRules))
	}
	if cfg.Logger != nil {
		options = append(options, WithLogger(cfg.Logger))
	}
	return New(cfg.RootDir, options...)
}

// init registers the built-in rule sets, in order: .git, hidden, custom
func (m *IgnoreMatcher) init() {
	m.logger.Debug("ignore.New: root=%s git=%v hidden=%v custom=%d",
		m.rootDir, m.ignoreGit, m.ignoreHidden, len(m.customPatterns))

	if m.ignoreGit {
		m.add(m.rootDir, SourceInternal, []string{GitDirPattern})
	}
	if m.ignoreHidden {
		m.add(m.rootDir, SourceHidden, []string{".*"})
	}
	if len(m.customPatterns) > 0 {
		m.add(m.rootDir, SourceCustom, m.customPatterns)
	}
}

// RootDir returns the absolute, forward-slash root the matcher was built for
func (m *IgnoreMatcher) RootDir() string {
	return m.rootDir
}

// AddPatterns compiles ignore-file content and appends it as a new rule set
// scoped to scopeDir, after every rule set added so far. Lines that fail to
// compile are skipped and reported as warnings; they never abort the file.
//
// When a WarningHandler is set, warnings go to it and nil is returned.
func (m *IgnoreMatcher) AddPatterns(scopeDir, source string, contents []byte) []Warning {
	if contents == nil {
		return nil
	}
	lines := strings.Split(string(normalizeContent(contents)), "\n")
	return m.add(normalizePath(scopeDir), source, lines)
}

func (m *IgnoreMatcher) add(scope, source string, lines []string) []Warning {
	set := &RuleSet{Scope: scope, Source: source}
	var warnings []Warning

	for i, line := range lines {
		r, err := compileLine(scope, line, i+1, m.caseSensitive)
		if err != nil {
			warnings = append(warnings, Warning{
				Source:  source,
				Line:    i + 1,
				Pattern: strings.TrimSpace(line),
				Message: err.Error(),
			})
			continue
		}
		if r == nil {
			continue
		}
		r.Source = source
		r.seq = m.nextSeq
		m.nextSeq++
		set.Rules = append(set.Rules, r)
	}

	m.sets = append(m.sets, set)
	m.byScope[scope] = append(m.byScope[scope], set)
	m.logger.Debug("ignore.AddPatterns: %s -> %d rules scoped to %s (%d warnings)",
		source, len(set.Rules), scope, len(warnings))

	if m.warnHandler != nil {
		for _, w := range warnings {
			m.warnHandler(w)
		}
		return nil
	}
	m.warnings = append(m.warnings, warnings...)
	return warnings
}

// Warnings returns the warnings collected so far (only without a WarningHandler)
func (m *IgnoreMatcher) Warnings() []Warning {
	if len(m.warnings) == 0 {
		return nil
	}
	out := make([]Warning, len(m.warnings))
	copy(out, m.warnings)
	return out
}

// RuleSets returns the rule sets in discovery order
func (m *IgnoreMatcher) RuleSets() []*RuleSet {
	out := make([]*RuleSet, len(m.sets))
	copy(out, m.sets)
	return out
}

// RuleSetsFor returns the rule sets registered for exactly scopeDir
func (m *IgnoreMatcher) RuleSetsFor(scopeDir string) []*RuleSet {
	return m.byScope[normalizePath(scopeDir)]
}

// RuleCount returns the number of compiled rules
func (m *IgnoreMatcher) RuleCount() int {
	return m.nextSeq
}
