package ignore

import "github.com/bethropolis/dir-walker/internal/utils"

// Option functions for configuration
type Option func(*IgnoreMatcher)

// WithHiddenIgnore registers a root rule ignoring dotfiles and dot-directories
func WithHiddenIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreHidden = ignore
	}
}

// WithGitIgnore registers the anchored "/.git/" rule as the first rule set
func WithGitIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreGit = ignore
	}
}

// WithCaseSensitive turns off case folding in compiled patterns
func WithCaseSensitive(sensitive bool) Option {
	return func(m *IgnoreMatcher) {
		m.caseSensitive = sensitive
	}
}

// WithCustomRules registers caller-supplied patterns scoped to the root
func WithCustomRules(patterns []string) Option {
	return func(m *IgnoreMatcher) {
		m.customPatterns = patterns
	}
}

// WithWarningHandler routes parse warnings to fn instead of collecting them
func WithWarningHandler(fn WarningHandler) Option {
	return func(m *IgnoreMatcher) {
		m.warnHandler = fn
	}
}

// WithLogger sets the logger for rule loading and match decisions
func WithLogger(logger utils.Logger) Option {
	return func(m *IgnoreMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}
