package filter

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/ryanuber/go-glob"
)

const (
	globPrefix   = "glob:"
	regexpPrefix = "regexp:"
)

var (
	// PatternAll matches everything.
	PatternAll = GlobPattern("*")
)

// Pattern provides an interface to match snapshot paths.
type Pattern interface {
	// Matches returns true if the given path matches the pattern.
	Matches(path string) bool
	// String returns the prefixed string representation.
	String() string
}

// GlobPattern matches with `*` wildcards, which also match dots.
type GlobPattern string

// RegexpPattern matches by regular expression.
type RegexpPattern struct {
	pattern string // pattern without prefix
	regexp  *regexp.Regexp
}

// NewPattern instantiates a Pattern according to the prefix it finds.
// The prefix can be either `glob:` (default if omitted) or `regexp:`.
func NewPattern(pattern string) (Pattern, error) {
	switch {
	case strings.HasPrefix(pattern, regexpPrefix):
		pattern = strings.TrimPrefix(pattern, regexpPrefix)
		r, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling pattern %q", pattern)
		}
		return RegexpPattern{pattern, r}, nil
	default:
		return GlobPattern(strings.TrimPrefix(pattern, globPrefix)), nil
	}
}

func (g GlobPattern) Matches(path string) bool {
	return glob.Glob(string(g), path)
}

func (g GlobPattern) String() string {
	return globPrefix + string(g)
}

func (r RegexpPattern) Matches(path string) bool {
	return r.regexp.MatchString(path)
}

func (r RegexpPattern) String() string {
	return regexpPrefix + r.pattern
}
