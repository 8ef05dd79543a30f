package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diskmend/diskmend/internal/app"
	"github.com/diskmend/diskmend/internal/rangetree"
	"github.com/diskmend/diskmend/internal/trace"
)

const instructionsLine = "↑/↓ row   PgUp/PgDn page   n/N next/prev diff   > merge→2   < merge→1   = unmerged   ! reset   a/w apply   q quit"

// DiffView is the bottom, permanent layer: two side-by-side hex/ASCII
// panes, a position gutter, an instructions line, and a status line.
type DiffView struct {
	cache *RowCache
}

// NewDiffView returns a DiffView with its own row render cache.
func NewDiffView() *DiffView {
	return &DiffView{cache: NewRowCache()}
}

func (v *DiffView) HandleKey(ctx *app.Context, msg tea.KeyMsg, cl *app.ChangeList) {
	switch msg.String() {
	case "down":
		ctx.SetPos(ctx.Pos + rowBytes)
	case "up":
		ctx.SetPos(ctx.Pos - rowBytes)
	case "pgdown":
		ctx.SetPos(ctx.Pos + int64(ctx.ShownDataHeight)*rowBytes)
	case "pgup":
		ctx.SetPos(ctx.Pos - int64(ctx.ShownDataHeight)*rowBytes)
	case "n":
		ctx.AdvanceDiff(1)
	case "N":
		ctx.AdvanceDiff(-1)
	case ">":
		if r, ok := ctx.CurrentDiff(); ok {
			ctx.Classify(r, ctx.MergesOneIntoTwo)
		}
	case "<":
		if r, ok := ctx.CurrentDiff(); ok {
			ctx.Classify(r, ctx.MergesTwoIntoOne)
		}
	case "=":
		if r, ok := ctx.CurrentDiff(); ok {
			ctx.Classify(r, ctx.LeaveUnmerged)
		}
	case "!":
		if r, ok := ctx.CurrentDiff(); ok {
			ctx.Classify(r, nil)
		}
	case "a", "w":
		cl.Push(NewApplyConfirmPopup())
	case "q":
		if ctx.HasClassifications() {
			cl.Push(NewQuitConfirmPopup())
		} else {
			ctx.Exit = true
		}
	}
}

// Render ignores below: it is always the bottom layer. It is also where
// ShownDataHeight is (re)computed from the available height, per
// spec.md's data model ("shown_data_height — set by the view during
// render"), and where Pos is re-clamped against the new height.
func (v *DiffView) Render(ctx *app.Context, width, height int, _ string) string {
	ctx.ShownDataHeight = viewportRows(height)
	ctx.SetPos(ctx.Pos)

	var b strings.Builder
	var buf1, buf2 [rowBytes]byte

	b.WriteString(strings.Repeat(" ", gutterWidth+2))
	b.WriteString(styleGutter.Render(paneTitle(ctx.Name1, paneWidth)))
	b.WriteString("   ")
	b.WriteString(styleGutter.Render(paneTitle(ctx.Name2, paneWidth)))
	b.WriteString("\n")

	for row := 0; row < ctx.ShownDataHeight; row++ {
		offset := ctx.Pos + int64(row)*rowBytes
		if offset >= ctx.Len {
			break
		}
		n := rowBytes
		if remain := ctx.Len - offset; remain < int64(rowBytes) {
			n = int(remain)
		}
		if _, err := ctx.File1.ReadAt(buf1[:n], offset); err != nil {
			panic(trace.Errorf("diffview: reading %s at %d: %v", ctx.File1.Path(), offset, err))
		}
		if _, err := ctx.File2.ReadAt(buf2[:n], offset); err != nil {
			panic(trace.Errorf("diffview: reading %s at %d: %v", ctx.File2.Path(), offset, err))
		}

		b.WriteString(FormatGutter(offset))
		b.WriteString("  ")
		b.WriteString(v.renderPane(ctx, 1, buf1[:n], offset))
		b.WriteString("   ")
		b.WriteString(v.renderPane(ctx, 2, buf2[:n], offset))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleInstructions.Render(instructionsLine))
	b.WriteString("\n")
	b.WriteString(styleStatus.Render(v.statusLine(ctx)))
	return b.String()
}

func (v *DiffView) renderPane(ctx *app.Context, side int, data []byte, offset int64) string {
	levels := make([]byte, len(data))
	for i := range data {
		levels[i] = precedenceLevel(ctx, side, offset+int64(i))
	}
	key := fmt.Sprintf("%d:%d:%x:%s", side, offset, data, levels)
	if cached, ok := v.cache.Get(key); ok {
		return cached
	}
	row := FormatRow(data, func(i int) lipgloss.Style { return styleForLevel(levels[i]) })
	v.cache.Set(key, row)
	return row
}

// statusLine builds the three-segment status the original's diff_view.rs
// renders: which diff is selected, how many diffs are merged overall,
// and how many diffs have been found so far — each diff-derived count
// carrying a trailing "?" while the differ is still scanning, since the
// total is provisional until then (adapted from the original's per-
// segment `{q}` suffix).
func (v *DiffView) statusLine(ctx *app.Context) string {
	q := provisionalSuffix(ctx)
	total := ctx.Diffs.Len()

	looking := "Looking at no diff"
	if idx := ctx.CurrentDiffIndex; idx >= 0 {
		looking = fmt.Sprintf("Looking at diff %d/%d%s", idx+1, total, q)
	}

	merged := ctx.MergesOneIntoTwo.Len() + ctx.MergesTwoIntoOne.Len()
	mergedSeg := fmt.Sprintf("Merged %d/%d%s", merged, total, q)

	var foundSeg string
	if ctx.AllDiffsLoaded {
		foundSeg = fmt.Sprintf("Found %d diffs", total)
	} else {
		foundSeg = fmt.Sprintf("Loading diffs, %d so far", total)
	}

	return fmt.Sprintf("pos=%#08x  %s   %s   %s", ctx.Pos, looking, mergedSeg, foundSeg)
}

// provisionalSuffix mirrors diff_view.rs's per-segment `{q}`: a count
// derived from ctx.Diffs is not final until the differ has finished.
func provisionalSuffix(ctx *app.Context) string {
	if ctx.AllDiffsLoaded {
		return ""
	}
	return "?"
}

// precedenceLevel implements the coloring precedence table from
// spec.md §4.5, highest first: current diff, merged-into-this-side,
// merged-from-this-side, leave-unmerged, unclassified diff, equal.
func precedenceLevel(ctx *app.Context, side int, off int64) byte {
	if cur, ok := ctx.CurrentDiff(); ok && cur.Contains(off) {
		return '1'
	}
	mergedInto, mergedFrom := sideTrees(ctx, side)
	switch {
	case mergedInto.Contains(off):
		return '2'
	case mergedFrom.Contains(off):
		return '3'
	case ctx.LeaveUnmerged.Contains(off):
		return '4'
	case ctx.Diffs.Contains(off):
		return '5'
	default:
		return '6'
	}
}

// sideTrees returns (merged-into-this-side, merged-from-this-side) for
// the given pane. Side 1 (file1) receives bytes when merges_2_into_1
// fires and is the source when merges_1_into_2 fires; side 2 is the
// mirror image.
func sideTrees(ctx *app.Context, side int) (mergedInto, mergedFrom *rangetree.Tree) {
	if side == 1 {
		return ctx.MergesTwoIntoOne, ctx.MergesOneIntoTwo
	}
	return ctx.MergesOneIntoTwo, ctx.MergesTwoIntoOne
}

func styleForLevel(level byte) lipgloss.Style {
	switch level {
	case '1':
		return styleDiffBg
	case '2':
		return styleMergedInto
	case '3':
		return styleMergedFrom
	case '4':
		return styleUnmerged
	case '5':
		return styleDiff
	default:
		return lipgloss.NewStyle()
	}
}

// viewportRows reserves four lines of chrome (pane title header, blank
// separator, instructions, status) out of the terminal height.
func viewportRows(height int) int {
	rows := height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}
