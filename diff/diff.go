package diff

// Flat maps the dotted path of each leaf seen so far to its last
// value. Paths are only ever added or overwritten; a path that drops
// out of later snapshots keeps its stale value.
type Flat map[string]Value

// Change records a leaf whose value differs from the previous sample.
// Delta is Invalid if the two values could not be subtracted, and Rate
// is Invalid when there is no rate to report.
type Change struct {
	Path     string
	Old, New Value
	Delta    Value
	Rate     Value
}

func (c Change) HasDelta() bool {
	return c.Delta.IsValid()
}

func (c Change) HasRate() bool {
	return c.Rate.IsValid()
}

// Diff walks the map current, comparing each leaf with the value
// recorded in previous at the same path, and returns a Change for each
// leaf that differs. Keys are visited in sorted order, depth first.
// Every leaf in current is recorded in previous, changed or not; a leaf
// seen for the first time is recorded without reporting a change.
//
// intervalSeconds is the time between samples. When it is other than
// 1, each Change with a delta also carries the delta per second.
// Intervals below 1 are taken as 1.
func Diff(previous Flat, current Value, intervalSeconds int) []Change {
	if current.Kind() != Map {
		return nil
	}
	if intervalSeconds < 1 {
		intervalSeconds = 1
	}
	return diffMap(previous, current, intervalSeconds, "", nil)
}

func diffMap(previous Flat, m Value, interval int, prefix string, changes []Change) []Change {
	for _, k := range m.Keys() {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		v := m.Entries()[k]
		if v.Kind() == Map {
			changes = diffMap(previous, v, interval, path, changes)
			continue
		}

		if old, found := previous[path]; found && !old.Equal(v) {
			changes = append(changes, makeChange(path, old, v, interval))
		}
		previous[path] = v
	}
	return changes
}

func makeChange(path string, old, cur Value, interval int) Change {
	c := Change{Path: path, Old: old, New: cur}
	delta, err := cur.Sub(old)
	if err != nil {
		// changed, but not by an amount we can state
		return c
	}
	c.Delta = delta
	if interval == 1 {
		return c
	}

	secs, ok := delta.Seconds()
	if !ok {
		return c
	}
	if secs >= float64(interval) {
		c.Rate = delta.Div(interval)
	} else {
		// a plain division would truncate small integer deltas to zero
		c.Rate = FloatValue(secs / float64(interval))
	}
	return c
}

// Flatten returns the leaves of a nested snapshot keyed by dotted path.
func Flatten(current Value) Flat {
	flat := Flat{}
	if current.Kind() == Map {
		flatten(flat, current, "")
	}
	return flat
}

func flatten(flat Flat, m Value, prefix string) {
	for k, v := range m.Entries() {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if v.Kind() == Map {
			flatten(flat, v, path)
			continue
		}
		flat[path] = v
	}
}
