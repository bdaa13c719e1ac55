package resolver

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// matcher tests relative paths against a pattern that is a glob and, when
// it also compiles, a regular expression.
type matcher struct {
	glob string
	re   *regexp.Regexp
}

func newMatcher(pattern string) matcher {
	return matcher{glob: pattern, re: compileRegex(pattern)}
}

// compileRegex returns nil for patterns that are not valid regular
// expressions; such patterns are matched as globs only.
func compileRegex(pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	return re
}

func (m matcher) match(rel string) bool {
	if ok, err := doublestar.Match(m.glob, rel); err == nil && ok {
		return true
	}
	return m.re != nil && m.re.MatchString(rel)
}

func newMatchers(patterns []string) []matcher {
	out := make([]matcher, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		out = append(out, newMatcher(p))
	}
	return out
}

func anyMatch(matchers []matcher, rel string) bool {
	for _, m := range matchers {
		if m.match(rel) {
			return true
		}
	}
	return false
}

// Match reports whether rel satisfies pattern as a glob or as a regex.
func Match(pattern, rel string) bool {
	return newMatcher(pattern).match(rel)
}

// Excluded reports whether rel matches any exclude entry.
func Excluded(rel string, excludes []string) bool {
	return anyMatch(newMatchers(excludes), rel)
}

// Selects reports whether rel matches pattern and no exclude entry.
func Selects(pattern, rel string, excludes []string) bool {
	return Match(pattern, rel) && !Excluded(rel, excludes)
}
