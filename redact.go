package safejson

import (
	"regexp"
	"strings"
)

// pathWildcard stands for any array index in a path.
const pathWildcard = "[]"

// KeyMatcher decides whether a property name is subject to redaction.
type KeyMatcher interface {
	MatchKey(key string) bool
}

// keyMatcher matches a property name exactly, ignoring case.
type keyMatcher string

func (m keyMatcher) MatchKey(key string) bool {
	return strings.EqualFold(string(m), key)
}

// patternMatcher matches a property name against a regular expression.
type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) MatchKey(key string) bool {
	return m.re.MatchString(key)
}

// Key returns a matcher for an exact, case-insensitive property name.
func Key(name string) KeyMatcher {
	return keyMatcher(name)
}

// Pattern returns a matcher that applies re to property names.
// Case sensitivity is whatever re says it is.
func Pattern(re *regexp.Regexp) KeyMatcher {
	return patternMatcher{re: re}
}

// redactor holds the compiled redaction rules of one configuration.
// A property is redacted only when its key matches a key matcher and its
// parent path lies under one of the path prefixes.
type redactor struct {
	keys  []KeyMatcher
	paths [][]string
}

// parsePath splits a dot-joined path into segments.
// The empty path has no segments and therefore prefixes every path.
func parsePath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

// enabled reports whether any property could ever be redacted.
func (r *redactor) enabled() bool {
	return r != nil && len(r.keys) > 0 && len(r.paths) > 0
}

// under reports whether path equals or descends from a configured prefix.
func (r *redactor) under(path []string) bool {
	for _, prefix := range r.paths {
		if hasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// matchKey reports whether key matches any configured key matcher.
func (r *redactor) matchKey(key string) bool {
	for _, m := range r.keys {
		if m.MatchKey(key) {
			return true
		}
	}
	return false
}

// redacts reports whether the property key under path must be redacted.
func (r *redactor) redacts(path []string, key string) bool {
	if !r.enabled() {
		return false
	}
	return r.matchKey(key) && r.under(path)
}

func hasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}
