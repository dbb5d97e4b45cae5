// Package diff compares successive status snapshots. A snapshot is a
// tree of Values whose interior nodes are maps with string keys; leaves
// are flattened to dotted paths and compared against the last value
// seen at the same path.
package diff
