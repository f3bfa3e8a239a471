// Package filterx implements the "-f/--filter" matcher shared by
// CompilationsDB loading and DependencyIndex construction: spec.md
// describes the filter as "a regular expression or glob", so this package
// offers both, backed by doublestar for glob matching the way
// EngFlow-gazelle_cc matches Bazel source globs.
package filterx

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wrenger/unclude/internal/ucerr"
)

// Filter decides whether a path should be considered by the database/index.
type Filter interface {
	Match(path string) bool
}

// Regex matches paths against a compiled regular expression.
type Regex struct{ re *regexp.Regexp }

// NewRegex compiles pattern as a regular expression filter.
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ucerr.Wrap(ucerr.ErrConfig, "compile filter regex "+pattern, err)
	}
	return &Regex{re: re}, nil
}

// Match reports whether path matches the regex anywhere.
func (f *Regex) Match(path string) bool { return f.re.MatchString(path) }

// Glob matches paths against a doublestar glob pattern (supports "**").
type Glob struct{ pattern string }

// NewGlob validates pattern as a glob filter.
func NewGlob(pattern string) (*Glob, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, ucerr.New(ucerr.ErrConfig, "invalid filter glob "+pattern)
	}
	return &Glob{pattern: pattern}, nil
}

// Match reports whether path matches the glob.
func (f *Glob) Match(path string) bool {
	ok, _ := doublestar.Match(f.pattern, path)
	return ok
}

// New builds a Filter from pattern, preferring regex semantics (matching
// the documented "-f, --filter <regex>" default "."), but falling back to
// glob matching when pattern fails to compile as a regex and validates as a
// glob instead — so a caller-supplied "**/*.cpp" still works.
func New(pattern string) (Filter, error) {
	if re, err := NewRegex(pattern); err == nil {
		return re, nil
	}
	return NewGlob(pattern)
}
