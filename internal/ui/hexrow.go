package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgraph-io/ristretto/v2"
)

// rowBytes and groupAt match the row layout spec.md §4.5 requires: 16
// bytes per row, with a nibble-group separator between bytes 7 and 8.
// This file is a from-scratch reimplementation of the row/gutter
// contract the teacher's modules/hexview/format_test.go exercised — its
// Format/newBinaryPrinter implementation itself was never part of the
// retrieved sources, so the test file stands in as the spec for this
// row layout.
const (
	rowBytes = 16
	groupAt  = 8

	// gutterWidth is FormatGutter's fixed "%08x" width.
	gutterWidth = 8
	// paneWidth is FormatRow's fixed output width: 16 "XX " triples,
	// one extra separator space at groupAt, one space, and 16 ASCII
	// columns.
	paneWidth = rowBytes*3 + 1 + 1 + rowBytes
)

// paneTitle centers name (typically a file path) over a pane, the hex
// view's adaptation of the original's per-pane bordered-block title.
// A name too long to fit is truncated from the left behind a leading
// ellipsis so the most distinguishing suffix of a path stays visible.
func paneTitle(name string, width int) string {
	if len(name) > width {
		name = "…" + name[len(name)-(width-1):]
	}
	pad := width - lipgloss.Width(name)
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	right := pad - left
	return strings.Repeat(" ", left) + name + strings.Repeat(" ", right)
}

// FormatRow renders one row's hex and ASCII columns, applying styleFn to
// each byte index present in data (data may be short for the final
// partial row).
func FormatRow(data []byte, styleFn func(i int) lipgloss.Style) string {
	var hex strings.Builder
	var ascii strings.Builder

	for i := 0; i < rowBytes; i++ {
		if i == groupAt {
			hex.WriteByte(' ')
		}
		if i < len(data) {
			b := data[i]
			s := styleFn(i)
			hex.WriteString(s.Render(fmt.Sprintf("%02x ", b)))
			r := rune('.')
			if b >= 0x20 && b < 0x7f {
				r = rune(b)
			}
			ascii.WriteString(s.Render(string(r)))
		} else {
			hex.WriteString("   ")
			ascii.WriteByte(' ')
		}
	}
	return hex.String() + " " + ascii.String()
}

// FormatGutter renders the offset column shared by both panes.
func FormatGutter(offset int64) string {
	return styleGutter.Render(fmt.Sprintf("%08x", offset))
}

// RowCache memoizes formatted rows keyed by their content and the
// classification state that determined each byte's style, so redrawing
// an unchanged viewport at 60 Hz doesn't re-run lipgloss rendering for
// rows nothing happened to. Grounded on the teacher's ristretto
// dependency, present in its go.mod but unexercised there.
type RowCache struct {
	c *ristretto.Cache[string, string]
}

// NewRowCache returns a RowCache sized for a comfortably large terminal
// scrollback worth of rows.
func NewRowCache() *RowCache {
	c, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 100_000,
		MaxCost:     10_000_000,
		BufferItems: 64,
	})
	if err != nil {
		// Configuration is static and known-valid; a cache is a pure
		// optimization, so degrade to "always miss" rather than fail
		// the render path.
		return &RowCache{}
	}
	return &RowCache{c: c}
}

// Get returns the cached row for key, if present.
func (rc *RowCache) Get(key string) (string, bool) {
	if rc == nil || rc.c == nil {
		return "", false
	}
	return rc.c.Get(key)
}

// Set stores the rendered row for key.
func (rc *RowCache) Set(key, row string) {
	if rc == nil || rc.c == nil {
		return
	}
	rc.c.Set(key, row, int64(len(row)))
}

// Wait blocks until pending Set calls have been applied. Ristretto
// admits writes through an internal buffer; tests that need a Set to be
// immediately visible to Get must call this first.
func (rc *RowCache) Wait() {
	if rc == nil || rc.c == nil {
		return
	}
	rc.c.Wait()
}
