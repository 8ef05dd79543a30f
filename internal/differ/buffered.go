package differ

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/diskmend/diskmend/internal/rangetree"
)

// runBuffered fills a chunkSize buffer from each stream and scans the two
// paired slices for mismatched bytes, instead of touching the underlying
// Reader on every compared byte. A diff run is allowed to straddle a
// chunk boundary; diffStart/inDiff carry across iterations to track that.
func runBuffered(ctx context.Context, a, b io.Reader, out chan<- rangetree.Range) error {
	abuf := getChunk()
	bbuf := getChunk()
	defer putChunk(abuf)
	defer putChunk(bbuf)

	var pos int64
	var inDiff bool
	var diffStart int64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		na, errA := io.ReadFull(a, *abuf)
		nb, errB := io.ReadFull(b, *bbuf)
		if na != nb {
			return fmt.Errorf("differ: streams disagree on length near offset %d", pos+int64(min(na, nb)))
		}

		for i := 0; i < na; i++ {
			differs := (*abuf)[i] != (*bbuf)[i]
			switch {
			case differs && !inDiff:
				inDiff = true
				diffStart = pos + int64(i)
			case !differs && inDiff:
				inDiff = false
				if !emit(ctx, out, rangetree.New(diffStart, pos+int64(i))) {
					return ctx.Err()
				}
			}
		}
		pos += int64(na)

		done, err := chunkDone(errA, errB)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	if inDiff {
		if !emit(ctx, out, rangetree.New(diffStart, pos)) {
			return ctx.Err()
		}
	}
	return nil
}

// chunkDone interprets the pair of io.ReadFull errors from one chunk
// read, reporting whether both streams have reached EOF together, or
// surfacing the first genuine error.
func chunkDone(errA, errB error) (bool, error) {
	aEOF := errA == io.EOF || errA == io.ErrUnexpectedEOF
	bEOF := errB == io.EOF || errB == io.ErrUnexpectedEOF

	if aEOF != bEOF {
		return false, errors.New("differ: streams disagree on length at end of file")
	}
	if !aEOF && errA == nil && errB == nil {
		return false, nil
	}
	if errA != nil && !aEOF {
		return false, errA
	}
	if errB != nil && !bEOF {
		return false, errB
	}
	return aEOF && bEOF, nil
}
