// Package apply implements the terminal step of the tool: writing
// classified diff ranges back between the two files as positioned
// copies, once the TUI has torn down (spec.md §4.8).
package apply

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/diskmend/diskmend/internal/app"
	"github.com/diskmend/diskmend/internal/posfile"
	"github.com/diskmend/diskmend/internal/rangetree"
	"github.com/diskmend/diskmend/internal/term"
	"github.com/diskmend/diskmend/internal/trace"
)

// copyChunkSize matches the ~8 MiB figure spec.md §4.8 specifies for
// apply-time copies.
const copyChunkSize = 8 << 20

var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, copyChunkSize)
		return &b
	},
}

// Run performs the apply stage. Precondition: the TUI has already been
// torn down — progress lines go to out, ordinarily stdout. leave_unmerged
// ranges are never touched; ordering between the two copy directions
// only affects progress reporting, since the three classification trees
// are pairwise disjoint by construction.
func Run(ctx *app.Context, out io.Writer, tr *trace.Tracker) error {
	n, err := copyRanges(ctx.File2, ctx.File1, ctx.MergesTwoIntoOne, out, "file2 -> file1")
	if err != nil {
		return err
	}
	if err := ctx.File1.Sync(); err != nil {
		return fmt.Errorf("apply: syncing %s: %w", ctx.File1.Path(), err)
	}
	tr.StepBytes(n, "applied merges_2_into_1 (%d ranges)", ctx.MergesTwoIntoOne.Len())

	n, err = copyRanges(ctx.File1, ctx.File2, ctx.MergesOneIntoTwo, out, "file1 -> file2")
	if err != nil {
		return err
	}
	if err := ctx.File2.Sync(); err != nil {
		return fmt.Errorf("apply: syncing %s: %w", ctx.File2.Path(), err)
	}
	tr.StepBytes(n, "applied merges_1_into_2 (%d ranges)", ctx.MergesOneIntoTwo.Len())

	return nil
}

// copyRanges streams every range in ranges (in stored, ascending order)
// from src to dst, reporting progress on a mpb bar, and returns the
// total bytes copied.
func copyRanges(src, dst *posfile.File, ranges *rangetree.Tree, out io.Writer, label string) (int64, error) {
	var total int64
	for i := 0; i < ranges.Len(); i++ {
		total += ranges.At(i).Len()
	}
	if total == 0 {
		return 0, nil
	}

	p := mpb.New(mpb.WithOutput(out))
	bar := p.AddBar(total,
		mpb.PrependDecorators(decor.Name(label+" ")),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .2f / % .2f"),
			decor.Percentage(decor.WCSyncSpace),
		),
	)

	buf := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(buf)

	for i := 0; i < ranges.Len(); i++ {
		if err := copyRange(src, dst, ranges.At(i), *buf, bar); err != nil {
			bar.Abort(false)
			p.Wait()
			return 0, err
		}
	}
	p.Wait()
	fmt.Fprintln(out, term.PostTUILevel.Done(fmt.Sprintf("%s: %s copied", label, humanize.Bytes(uint64(total)))))
	return total, nil
}

// copyRange copies one range from src to dst in buf-sized chunks.
func copyRange(src, dst *posfile.File, r rangetree.Range, buf []byte, bar *mpb.Bar) error {
	remaining := r.Len()
	offset := r.Start

	for remaining > 0 {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		chunk := buf[:n]

		if _, err := src.ReadAt(chunk, offset); err != nil {
			return fmt.Errorf("apply: reading %s at %d: %w", src.Path(), offset, err)
		}
		if err := dst.WriteAllAt(chunk, offset); err != nil {
			return fmt.Errorf("apply: writing %s at %d: %w", dst.Path(), offset, err)
		}

		bar.IncrInt64(n)
		offset += n
		remaining -= n
	}
	return nil
}
