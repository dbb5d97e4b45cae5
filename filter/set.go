package filter

import (
	"github.com/fluxcd/statwatch/diff"
)

// Set decides which paths get reported. A path is kept if it matches
// any Include pattern (or there are none), and no Exclude pattern.
type Set struct {
	Include []Pattern
	Exclude []Pattern
}

// NewSet parses include and exclude patterns.
func NewSet(include, exclude []string) (Set, error) {
	var s Set
	for _, p := range include {
		pattern, err := NewPattern(p)
		if err != nil {
			return Set{}, err
		}
		s.Include = append(s.Include, pattern)
	}
	for _, p := range exclude {
		pattern, err := NewPattern(p)
		if err != nil {
			return Set{}, err
		}
		s.Exclude = append(s.Exclude, pattern)
	}
	return s, nil
}

func (s Set) Empty() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0
}

func (s Set) Matches(path string) bool {
	if len(s.Include) > 0 && !anyMatch(s.Include, path) {
		return false
	}
	return !anyMatch(s.Exclude, path)
}

// Changes returns the changes whose paths the set keeps, in order.
func (s Set) Changes(changes []diff.Change) []diff.Change {
	if s.Empty() {
		return changes
	}
	var kept []diff.Change
	for _, c := range changes {
		if s.Matches(c.Path) {
			kept = append(kept, c)
		}
	}
	return kept
}

func anyMatch(patterns []Pattern, path string) bool {
	for _, p := range patterns {
		if p.Matches(path) {
			return true
		}
	}
	return false
}
