package ignore

// ShouldIgnore reports whether an absolute path is ignored.
//
// Every rule whose scope contains the path is considered in discovery order
// and the last one that matches decides: a negation re-includes, anything
// else ignores. No matching rule means not ignored.
func (m *IgnoreMatcher) ShouldIgnore(path string, isDir bool) bool {
	if m == nil {
		return false
	}
	return m.Explain(path, isDir).Ignored
}

// Explain evaluates a path like ShouldIgnore and reports the deciding rule.
func (m *IgnoreMatcher) Explain(path string, isDir bool) MatchResult {
	var result MatchResult
	if m == nil {
		return result
	}

	p := normalizePath(path)
	for _, set := range m.sets {
		if p == set.Scope || !isWithin(p, set.Scope) {
			continue
		}
		for _, r := range set.Rules {
			if r.Matches(p, isDir) {
				result = MatchResult{Matched: true, Ignored: !r.Negate, Negated: r.Negate, Rule: r}
			}
		}
	}

	if result.Matched {
		m.logger.Debug("ignore.Explain: %q (isDir: %v) ignored=%v by %s", p, isDir, result.Ignored, result.Rule)
	}
	return result
}

// CouldContainAllowed reports whether the subtree under dir might hold a path
// that is not ignored. It returns false only when dir itself is ignored and
// no later negation rule could re-include anything beneath it, which makes
// it safe to skip listing dir entirely.
func (m *IgnoreMatcher) CouldContainAllowed(dir string) bool {
	if m == nil {
		return true
	}

	d := normalizePath(dir)
	decided := m.Explain(d, true)
	if !decided.Ignored {
		return true
	}

	for _, set := range m.sets {
		for _, r := range set.Rules {
			if r.seq <= decided.Rule.seq || !r.Negate {
				continue
			}
			if r.MayContain(d) {
				m.logger.Debug("ignore.CouldContainAllowed: %q kept open by %s", d, r)
				return true
			}
		}
	}
	return false
}
