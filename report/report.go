// Package report presents the changes found in each cycle.
package report

import (
	"time"

	"github.com/fluxcd/statwatch/diff"
	"github.com/fluxcd/statwatch/filter"
)

// Reporter is given the changes from each cycle, in path order, along
// with the time the snapshot was taken.
type Reporter interface {
	Report(at time.Time, changes []diff.Change) error
}

type Func func(at time.Time, changes []diff.Change) error

func (f Func) Report(at time.Time, changes []diff.Change) error {
	return f(at, changes)
}

// Filtered passes on only the changes whose paths are kept by set.
func Filtered(r Reporter, set filter.Set) Reporter {
	if set.Empty() {
		return r
	}
	return Func(func(at time.Time, changes []diff.Change) error {
		return r.Report(at, set.Changes(changes))
	})
}

// Multi reports to each reporter in turn, stopping at the first error.
func Multi(reporters ...Reporter) Reporter {
	return Func(func(at time.Time, changes []diff.Change) error {
		for _, r := range reporters {
			if err := r.Report(at, changes); err != nil {
				return err
			}
		}
		return nil
	})
}
