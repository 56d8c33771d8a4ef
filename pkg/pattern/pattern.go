// Package pattern compiles lists of case-insensitive regular expressions
// used for exception and force-remove checks.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPattern is returned when a pattern does not compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// Matcher tests text against an ordered set of patterns.
// A nil Matcher matches nothing.
type Matcher struct {
	res []*regexp.Regexp
}

// Compile builds a Matcher from patterns. Every pattern is matched
// case-insensitively anywhere in the text.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{res: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, p, err)
		}
		m.res = append(m.res, re)
	}
	return m, nil
}

// MatchAny reports whether any pattern matches text.
func (m *Matcher) MatchAny(text string) bool {
	if m == nil {
		return false
	}
	for _, re := range m.res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.res)
}

// Regexps returns the compiled, case-insensitive expressions in order.
func (m *Matcher) Regexps() []*regexp.Regexp {
	if m == nil {
		return nil
	}
	out := make([]*regexp.Regexp, len(m.res))
	copy(out, m.res)
	return out
}
