package differ

import (
	"context"
	"fmt"
	"io"

	"github.com/diskmend/diskmend/internal/rangetree"
)

// runBytewise zips a and b one byte at a time. It is the reference
// strategy the other two are checked against: simplest to get right,
// slowest to run.
func runBytewise(ctx context.Context, a, b io.Reader, out chan<- rangetree.Range) error {
	var abuf, bbuf [1]byte
	var pos int64
	var inDiff bool
	var diffStart int64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, errA := io.ReadFull(a, abuf[:])
		_, errB := io.ReadFull(b, bbuf[:])
		if errA == io.EOF || errB == io.EOF {
			if errA != errB {
				return fmt.Errorf("differ: streams disagree on length near offset %d", pos)
			}
			break
		}
		if errA != nil {
			return errA
		}
		if errB != nil {
			return errB
		}

		switch differs := abuf[0] != bbuf[0]; {
		case differs && !inDiff:
			inDiff = true
			diffStart = pos
		case !differs && inDiff:
			inDiff = false
			if !emit(ctx, out, rangetree.New(diffStart, pos)) {
				return ctx.Err()
			}
		}
		pos++
	}

	if inDiff {
		if !emit(ctx, out, rangetree.New(diffStart, pos)) {
			return ctx.Err()
		}
	}
	return nil
}
