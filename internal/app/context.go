// Package app owns the process-wide interactive state, the layer stack
// that renders and routes input, and the bubbletea-hosted event loop that
// multiplexes the differ worker, terminal input, and redraws.
package app

import (
	"github.com/diskmend/diskmend/internal/posfile"
	"github.com/diskmend/diskmend/internal/rangetree"
)

// rowBytes is the number of bytes rendered per hex/ASCII row.
const rowBytes = 16

// Context is the shared, process-wide interactive state every layer
// reads and mutates. There is exactly one Context per run; it is passed
// by pointer to every layer call alongside that call's own change-list.
type Context struct {
	// Len is the common byte length of both files, fixed at open time.
	Len int64
	// Pos is the top-of-viewport offset. Always a multiple of 16.
	Pos int64
	// ShownDataHeight is the number of 16-byte rows the viewport
	// renders, set by the diff view during render.
	ShownDataHeight int

	// Diffs holds every divergent range discovered so far, in the order
	// the differ produced them.
	Diffs *rangetree.Tree
	// AllDiffsLoaded becomes true exactly once, when the differ
	// terminates.
	AllDiffsLoaded bool
	// CurrentDiffIndex is the navigation cursor into Diffs. Negative
	// means "no selection".
	CurrentDiffIndex int

	// MergesOneIntoTwo, MergesTwoIntoOne, and LeaveUnmerged partition
	// classified diffs. Invariant: any diff range appears in at most
	// one of the three.
	MergesOneIntoTwo *rangetree.Tree
	MergesTwoIntoOne *rangetree.Tree
	LeaveUnmerged    *rangetree.Tree

	// File1 and File2 are the two positioned file handles, opened
	// read-write for the lifetime of the app.
	File1 *posfile.File
	File2 *posfile.File

	// Name1 and Name2 are the two input paths, shown as pane titles by
	// the diff view.
	Name1 string
	Name2 string

	// Exit requests the app loop terminate after the current frame.
	Exit bool
	// PendingApply is set by the apply-confirmation popup's YES
	// callback; the caller runs the apply stage after the TUI tears
	// down if this is true.
	PendingApply bool
}

// NewContext builds the Context for a freshly opened, length-validated
// file pair. CurrentDiffIndex starts unset.
func NewContext(file1, file2 *posfile.File, length int64) *Context {
	return &Context{
		Len:              length,
		Diffs:            rangetree.NewTree(),
		MergesOneIntoTwo: rangetree.NewTree(),
		MergesTwoIntoOne: rangetree.NewTree(),
		LeaveUnmerged:    rangetree.NewTree(),
		File1:            file1,
		File2:            file2,
		Name1:            file1.Path(),
		Name2:            file2.Path(),
		CurrentDiffIndex: -1,
	}
}

// alignedLen rounds Len up to the next 16-byte boundary, the ceiling a
// navigation action's Pos must never exceed past ShownDataHeight rows.
func (c *Context) alignedLen() int64 {
	if rem := c.Len % rowBytes; rem != 0 {
		return c.Len + (rowBytes - rem)
	}
	return c.Len
}

// clampPos rounds pos down to a 16-byte boundary and keeps it within
// [0, alignedLen - shown_data_height*16], centralizing the position
// invariant in one place rather than scattering modular arithmetic
// across every keymap handler.
func (c *Context) clampPos(pos int64) int64 {
	pos -= pos % rowBytes
	if pos < 0 {
		pos = 0
	}
	viewSpan := int64(c.ShownDataHeight) * rowBytes
	max := c.alignedLen() - viewSpan // both multiples of rowBytes, so max is too
	switch {
	case max < 0:
		pos = 0
	case pos > max:
		pos = max
	}
	return pos
}

// SetPos applies the position invariants and stores the result.
func (c *Context) SetPos(pos int64) {
	c.Pos = c.clampPos(pos)
}

// Classify removes r from all three classification trees, then inserts
// it into dst (nil means "reset": remove only, as `!` does).
func (c *Context) Classify(r rangetree.Range, dst *rangetree.Tree) {
	c.MergesOneIntoTwo.RemoveRangeExact(r)
	c.MergesTwoIntoOne.RemoveRangeExact(r)
	c.LeaveUnmerged.RemoveRangeExact(r)
	if dst != nil {
		dst.Insert(r)
	}
}

// HasClassifications reports whether any diff has been classified,
// which gates whether `q` requires confirmation.
func (c *Context) HasClassifications() bool {
	return c.MergesOneIntoTwo.Len() > 0 || c.MergesTwoIntoOne.Len() > 0 || c.LeaveUnmerged.Len() > 0
}

// CurrentDiff returns the diff range at CurrentDiffIndex and whether a
// selection exists.
func (c *Context) CurrentDiff() (rangetree.Range, bool) {
	if c.CurrentDiffIndex < 0 || c.CurrentDiffIndex >= c.Diffs.Len() {
		return rangetree.Range{}, false
	}
	return c.Diffs.At(c.CurrentDiffIndex), true
}

// CenterOn computes the viewport position for centering r, following the
// policy in spec.md §4.5: if r fits inside shown_data_height*16 - 48,
// center it; otherwise anchor 32 bytes before its start. The result is
// not aligned or clamped here: AdvanceDiff passes it through SetPos,
// which rounds it down to a 16-byte boundary.
func (c *Context) CenterOn(r rangetree.Range) int64 {
	viewSpan := int64(c.ShownDataHeight) * rowBytes
	if r.Len() <= viewSpan-48 {
		mid := r.Start + r.Len()/2
		return mid - viewSpan/2
	}
	return r.Start - 32
}

// AdvanceDiff moves CurrentDiffIndex forward (delta=+1) or backward
// (delta=-1) with wraparound, and re-centers the viewport on the new
// selection. It is a no-op when there are no diffs.
func (c *Context) AdvanceDiff(delta int) {
	n := c.Diffs.Len()
	if n == 0 {
		return
	}
	if c.CurrentDiffIndex < 0 {
		if delta > 0 {
			c.CurrentDiffIndex = 0
		} else {
			c.CurrentDiffIndex = n - 1
		}
	} else {
		c.CurrentDiffIndex = ((c.CurrentDiffIndex+delta)%n + n) % n
	}
	r, ok := c.CurrentDiff()
	if ok {
		c.SetPos(c.CenterOn(r))
	}
}
