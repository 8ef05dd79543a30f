package rangetree

import (
	"fmt"
	"iter"
	"sort"
)

// Tree is an ordered sequence of non-overlapping, non-adjacent-merged
// half-open ranges, kept sorted by Start.
//
// It backs the three disjoint classification sets (merge-left,
// merge-right, leave-unmerged) as well as the append-only set of all
// diffs discovered by the differ.
type Tree struct {
	ranges []Range
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of stored ranges.
func (t *Tree) Len() int {
	return len(t.ranges)
}

// At returns the range stored at index i.
func (t *Tree) At(i int) Range {
	return t.ranges[i]
}

// Append adds r to the end of the tree. It requires r.Start to be at or
// past the end of the last stored range and runs in amortized O(1); it
// panics on any attempt to append out of order or overlapping.
func (t *Tree) Append(r Range) {
	if n := len(t.ranges); n > 0 {
		last := t.ranges[n-1]
		if r.Start < last.End {
			panic(fmt.Sprintf("rangetree: append %s overlaps or precedes last range %s", r, last))
		}
	}
	t.ranges = append(t.ranges, r)
}

// LookupIndex performs a binary search with a comparator that treats a
// stored range R as "less than" e when R.End <= e, and "greater than" e
// when e < R.End. The comparator is total and never reports equality, so
// the search always resolves through the "not found" branch of a
// standard binary search: the returned index either names the range
// containing e, or the position at which a range containing e would be
// inserted.
func (t *Tree) LookupIndex(e int64) int {
	return sort.Search(len(t.ranges), func(i int) bool {
		return t.ranges[i].End > e
	})
}

// Contains reports whether e falls inside any stored range.
func (t *Tree) Contains(e int64) bool {
	idx := t.LookupIndex(e)
	return idx < len(t.ranges) && t.ranges[idx].Contains(e)
}

// ContainsRangeExact reports whether a range identical to r is stored.
func (t *Tree) ContainsRangeExact(r Range) bool {
	idx := t.LookupIndex(r.Start)
	return idx < len(t.ranges) && t.ranges[idx] == r
}

// Insert splices r into the tree at its ordered position. It panics if r
// overlaps any existing range. O(n) due to the splice, after an O(log n)
// lookup.
func (t *Tree) Insert(r Range) {
	idx := t.LookupIndex(r.Start)
	if idx < len(t.ranges) && t.ranges[idx].Overlaps(r) {
		panic(fmt.Sprintf("rangetree: insert %s overlaps existing range %s", r, t.ranges[idx]))
	}
	if idx > 0 && t.ranges[idx-1].Overlaps(r) {
		panic(fmt.Sprintf("rangetree: insert %s overlaps existing range %s", r, t.ranges[idx-1]))
	}
	t.ranges = append(t.ranges, Range{})
	copy(t.ranges[idx+1:], t.ranges[idx:])
	t.ranges[idx] = r
}

// RemoveRangeExact deletes r if a range identical to [r.Start, r.End) is
// stored, and reports whether a removal occurred. O(n).
func (t *Tree) RemoveRangeExact(r Range) bool {
	idx := t.LookupIndex(r.Start)
	if idx >= len(t.ranges) || t.ranges[idx] != r {
		return false
	}
	t.ranges = append(t.ranges[:idx], t.ranges[idx+1:]...)
	return true
}

// RangesTouching yields, in order, the stored range containing r.Start
// (if any) followed by every stored range whose Start lies within
// [r.Start, r.End].
func (t *Tree) RangesTouching(r Range) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for i := t.LookupIndex(r.Start); i < len(t.ranges) && t.ranges[i].Start <= r.End; i++ {
			if !yield(t.ranges[i]) {
				return
			}
		}
	}
}

// Clear empties the tree.
func (t *Tree) Clear() {
	t.ranges = t.ranges[:0]
}

// Values returns the stored ranges in ascending order. The returned
// slice is owned by the caller; mutating it does not affect the tree.
func (t *Tree) Values() []Range {
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}
