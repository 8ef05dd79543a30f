package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/diskmend/diskmend/internal/differ"
	"github.com/diskmend/diskmend/internal/term"
)

// runBenchmark selects one differ strategy, streams its diff ranges to
// stdout, and reports the total range count and elapsed time (plus
// throughput) on stderr. It shares no state with the interactive path:
// no app.Context, no layer stack, no positioned files (spec.md §4.9).
func runBenchmark(strategy differ.Strategy, path1, path2 string) error {
	a, err := os.Open(path1)
	if err != nil {
		return err
	}
	defer a.Close()
	b, err := os.Open(path2)
	if err != nil {
		return err
	}
	defer b.Close()

	size, err := a.Stat()
	if err != nil {
		return err
	}

	start := time.Now()
	ranges, errs := differ.Start(context.Background(), strategy, a, b)

	var count int
	for r := range ranges {
		fmt.Printf("%d,%d\n", r.Start, r.End)
		count++
	}
	if err := <-errs; err != nil {
		return err
	}
	elapsed := time.Since(start)

	rate := float64(size.Size()) / elapsed.Seconds()
	fmt.Fprintln(os.Stderr, term.PostTUILevel.Done(fmt.Sprintf("strategy=%s ranges=%d use time: %v (%s/s)",
		strategy, count, elapsed, humanize.Bytes(uint64(rate)))))
	return nil
}
