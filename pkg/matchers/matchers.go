// Package matchers provides the predicate combinators used to describe
// expected request fields: literals, regular expressions, substring
// containment, UUID v4 structure, JSONPath conditions, and a wildcard.
//
// Every combinator validates its input when it is built, not when it
// first matches. A bad pattern is a test bug; it fails loudly at
// registration instead of degrading into a matcher that never matches.
package matchers

import (
	"fmt"
	"regexp"

	"github.com/clientmock/clientmock/internal/matching"
)

// Matcher is a predicate over a request field. A field is either
// constrained by a literal value or by a predicate; there is no third
// variant, and dispatch is explicit via this interface.
type Matcher interface {
	// Match reports whether the candidate satisfies the constraint.
	Match(candidate string) bool

	// String renders the constraint for diagnostics.
	String() string
}

// ConstructionError reports invalid input to a combinator. It is
// returned synchronously at build time and never at match time.
type ConstructionError struct {
	Combinator string
	Reason     string
	Err        error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("matchers.%s: %s: %v", e.Combinator, e.Reason, e.Err)
	}
	return fmt.Sprintf("matchers.%s: %s", e.Combinator, e.Reason)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// literal matches a field by exact equality.
type literal string

func (l literal) Match(candidate string) bool { return string(l) == candidate }
func (l literal) String() string              { return string(l) }

// Literal returns a matcher satisfied only by exactly v.
func Literal(v string) Matcher { return literal(v) }

// predicate wraps an arbitrary predicate function with a description.
type predicate struct {
	desc string
	fn   func(string) bool
}

func (p *predicate) Match(candidate string) bool { return p.fn(candidate) }
func (p *predicate) String() string              { return p.desc }

// Predicate wraps fn as a Matcher. desc is used in failure messages.
func Predicate(desc string, fn func(string) bool) Matcher {
	return &predicate{desc: desc, fn: fn}
}

// Anything returns a matcher satisfied by every candidate. It is the
// explicit wildcard placeholder for fields a test does not care about.
func Anything() Matcher {
	return Predicate("<anything>", func(string) bool { return true })
}

// StringMatching returns a matcher satisfied by candidates matching the
// given regular expression. An invalid pattern fails now with a
// ConstructionError.
func StringMatching(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ConstructionError{
			Combinator: "StringMatching",
			Reason:     fmt.Sprintf("invalid regular expression %q", pattern),
			Err:        err,
		}
	}
	return Regexp(re), nil
}

// MustStringMatching is StringMatching that panics on invalid input,
// for use in test setup where the pattern is a constant.
func MustStringMatching(pattern string) Matcher {
	m, err := StringMatching(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Regexp returns a matcher backed by an already compiled expression.
func Regexp(re *regexp.Regexp) Matcher {
	return Predicate(fmt.Sprintf("<matching /%s/>", re.String()), re.MatchString)
}

// StringContaining returns a matcher satisfied when sample occurs as a
// contiguous substring of the candidate. The empty sample matches
// everything; a sample longer than the candidate matches nothing.
func StringContaining(sample string) Matcher {
	return Predicate(fmt.Sprintf("<containing %q>", sample), func(candidate string) bool {
		return matching.Contains(candidate, sample)
	})
}

// UUID4 returns a matcher satisfied by strings with the exact UUID v4
// structure XXXXXXXX-XXXX-4XXX-[89ab]XXX-XXXXXXXXXXXX, hex digits
// case-insensitive, version and variant nibbles enforced.
func UUID4() Matcher {
	return Predicate("<uuid v4>", matching.IsUUID4)
}

// JSONPath returns a matcher satisfied when the candidate is a JSON
// document in which the given JSONPath selects a value equal to want.
// The path is parsed now; an invalid path fails with a
// ConstructionError.
func JSONPath(path string, want any) (Matcher, error) {
	cond, err := matching.CompileJSONPath(path, want)
	if err != nil {
		return nil, &ConstructionError{
			Combinator: "JSONPath",
			Reason:     "invalid path",
			Err:        err,
		}
	}
	return Predicate(fmt.Sprintf("<jsonpath %s == %v>", path, want), cond.Match), nil
}

// MustJSONPath is JSONPath that panics on invalid input.
func MustJSONPath(path string, want any) Matcher {
	m, err := JSONPath(path, want)
	if err != nil {
		panic(err)
	}
	return m
}
