package safejson

import (
	"regexp"
	"unicode/utf8"
)

// Default traversal budgets.
const (
	// DefaultMaxDepth is the deepest level that is still descended into.
	DefaultMaxDepth = 20

	// DefaultMinPreservedDepth is the depth up to which the edge budget never
	// truncates anything.
	DefaultMinPreservedDepth = 8

	// DefaultMaxEdges is the number of elements and properties visited before
	// values below DefaultMinPreservedDepth start being truncated.
	DefaultMaxEdges = 25000
)

// maxGap is the longest indentation JSON.stringify accepts.
const maxGap = 10

// Replacer transforms values while encoding, like the replacer function of
// JSON.stringify. The root is passed with an empty key and array elements
// with their decimal index. Returning Undefined drops the value.
type Replacer func(key string, value any) any

// Option configures sanitization and encoding.
type Option func(*config) error

// config is the resolved option set of one call or one Processor.
type config struct {
	maxDepth          int
	minPreservedDepth int
	maxEdges          int

	redact redactor

	replacer  Replacer
	allowList []string
	hasAllow  bool
	gap       string
}

func defaultConfig() *config {
	return &config{
		maxDepth:          DefaultMaxDepth,
		minPreservedDepth: DefaultMinPreservedDepth,
		maxEdges:          DefaultMaxEdges,
	}
}

// newConfig applies opts over the defaults.
func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithMaxDepth sets the depth beyond which values become "...".
func WithMaxDepth(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return newConfigError("max depth", n)
		}
		c.maxDepth = n
		return nil
	}
}

// WithMinPreservedDepth sets the depth up to which the edge budget never
// truncates.
func WithMinPreservedDepth(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return newConfigError("min preserved depth", n)
		}
		c.minPreservedDepth = n
		return nil
	}
}

// WithMaxEdges sets the number of elements and properties visited before
// deep values are truncated.
func WithMaxEdges(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return newConfigError("max edges", n)
		}
		c.maxEdges = n
		return nil
	}
}

// WithRedactedKeys adds property names redacted case-insensitively.
// Keys only take effect together with WithRedactedPaths.
func WithRedactedKeys(keys ...string) Option {
	return func(c *config) error {
		for _, k := range keys {
			c.redact.keys = append(c.redact.keys, Key(k))
		}
		return nil
	}
}

// WithRedactedPatterns adds regular expressions matched against property
// names. Patterns only take effect together with WithRedactedPaths.
func WithRedactedPatterns(patterns ...*regexp.Regexp) Option {
	return func(c *config) error {
		for _, re := range patterns {
			if re == nil {
				return newConfigError("redacted pattern", "nil")
			}
			c.redact.keys = append(c.redact.keys, Pattern(re))
		}
		return nil
	}
}

// WithRedactedKeyMatchers adds arbitrary key matchers.
func WithRedactedKeyMatchers(matchers ...KeyMatcher) Option {
	return func(c *config) error {
		for _, m := range matchers {
			if m == nil {
				return newConfigError("redacted key matcher", "nil")
			}
			c.redact.keys = append(c.redact.keys, m)
		}
		return nil
	}
}

// WithRedactedPaths adds dot-joined path prefixes under which matching keys
// are redacted. Array positions are written as "[]", e.g. "events.[].metaData".
func WithRedactedPaths(paths ...string) Option {
	return func(c *config) error {
		for _, p := range paths {
			c.redact.paths = append(c.redact.paths, parsePath(p))
		}
		return nil
	}
}

// WithReplacer installs a replacer function used while encoding.
func WithReplacer(fn Replacer) Option {
	return func(c *config) error {
		c.replacer = fn
		return nil
	}
}

// WithAllowList restricts object members to keys, emitted in the given order.
// An empty list still applies and yields empty objects.
func WithAllowList(keys ...string) Option {
	return func(c *config) error {
		seen := make(map[string]bool, len(keys))
		list := make([]string, 0, len(keys))
		for _, k := range keys {
			if seen[k] {
				continue
			}
			seen[k] = true
			list = append(list, k)
		}
		c.allowList = list
		c.hasAllow = true
		return nil
	}
}

// WithIndent indents nested values by n spaces, at most 10.
// Values below 1 disable indentation.
func WithIndent(n int) Option {
	return func(c *config) error {
		if n > maxGap {
			n = maxGap
		}
		c.gap = ""
		for i := 0; i < n; i++ {
			c.gap += " "
		}
		return nil
	}
}

// WithIndentString indents nested values with the first 10 characters of s.
func WithIndentString(s string) Option {
	return func(c *config) error {
		if utf8.RuneCountInString(s) > maxGap {
			s = string([]rune(s)[:maxGap])
		}
		c.gap = s
		return nil
	}
}
