package differ

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/diskmend/diskmend/internal/rangetree"
)

// chunk is one buffer's worth of a stream, read off the hot path by a
// dedicated reader goroutine.
type chunk struct {
	buf *[]byte
	n   int
	err error
}

// readerDepth bounds how many chunks a reader goroutine may read ahead
// of the scanner, the same role the bounded unpack channel plays in
// pkg/serve/odb/unpack.go: enough to hide read latency without letting
// an unbounded amount of memory pile up.
const readerDepth = 4

// runThreaded overlaps reading a and b with scanning by running one
// reader goroutine per stream, each filling a bounded channel of chunks,
// while this goroutine consumes paired chunks and compares them. The
// read side and the compare side run concurrently via errgroup.Group,
// matching the reader/worker split in pkg/serve/odb/unpack.go.
func runThreaded(ctx context.Context, a, b io.Reader, out chan<- rangetree.Range) error {
	g, ctx := errgroup.WithContext(ctx)

	chA := make(chan chunk, readerDepth)
	chB := make(chan chunk, readerDepth)

	g.Go(func() error { return readChunks(ctx, a, chA) })
	g.Go(func() error { return readChunks(ctx, b, chB) })

	g.Go(func() error {
		var pos int64
		var inDiff bool
		var diffStart int64

		for {
			ca, okA := <-chA
			cb, okB := <-chB
			if !okA || !okB {
				if okA != okB {
					return fmt.Errorf("differ: streams disagree on length near offset %d", pos)
				}
				break
			}

			if ca.err != nil {
				putChunk(ca.buf)
				putChunk(cb.buf)
				return ca.err
			}
			if cb.err != nil {
				putChunk(ca.buf)
				putChunk(cb.buf)
				return cb.err
			}
			if ca.n != cb.n {
				putChunk(ca.buf)
				putChunk(cb.buf)
				return fmt.Errorf("differ: streams disagree on length near offset %d", pos)
			}

			av, bv := (*ca.buf)[:ca.n], (*cb.buf)[:cb.n]
			for i := 0; i < ca.n; i++ {
				differs := av[i] != bv[i]
				switch {
				case differs && !inDiff:
					inDiff = true
					diffStart = pos + int64(i)
				case !differs && inDiff:
					inDiff = false
					if !emit(ctx, out, rangetree.New(diffStart, pos+int64(i))) {
						putChunk(ca.buf)
						putChunk(cb.buf)
						return ctx.Err()
					}
				}
			}
			pos += int64(ca.n)
			putChunk(ca.buf)
			putChunk(cb.buf)
		}

		if inDiff {
			if !emit(ctx, out, rangetree.New(diffStart, pos)) {
				return ctx.Err()
			}
		}
		return nil
	})

	return g.Wait()
}

// readChunks reads r into pooled chunkSize buffers and publishes them on
// ch in order, closing ch once r is exhausted or ctx is cancelled.
func readChunks(ctx context.Context, r io.Reader, ch chan<- chunk) error {
	defer close(ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		buf := getChunk()
		n, err := io.ReadFull(r, *buf)
		terminal := err == io.EOF || err == io.ErrUnexpectedEOF

		select {
		case ch <- chunk{buf: buf, n: n, err: errOrNil(err, terminal)}:
		case <-ctx.Done():
			putChunk(buf)
			return ctx.Err()
		}

		if terminal {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// errOrNil suppresses the two EOF sentinels read by io.ReadFull so a
// short final chunk is not mistaken for a read failure downstream.
func errOrNil(err error, terminal bool) error {
	if terminal {
		return nil
	}
	return err
}
