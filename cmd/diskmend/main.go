// Command diskmend is an interactive binary merge tool: given two
// equally-sized files expected to be near-duplicates, it locates every
// byte range where they disagree, lets an operator classify each
// disagreement through a hex-view TUI, and applies those decisions as
// in-place positioned writes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diskmend/diskmend/internal/app"
	"github.com/diskmend/diskmend/internal/apply"
	"github.com/diskmend/diskmend/internal/differ"
	"github.com/diskmend/diskmend/internal/posfile"
	"github.com/diskmend/diskmend/internal/term"
	"github.com/diskmend/diskmend/internal/trace"
	"github.com/diskmend/diskmend/internal/ui"
)

// fatal prints a diagnostic to stderr, colored by the same post-TUI
// color level internal/trace and internal/apply use, then returns the
// exit code the caller should use.
func fatal(code int, format string, a ...any) int {
	fmt.Fprintln(os.Stderr, term.PostTUILevel.Fatal(fmt.Sprintf(format, a...)))
	return code
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [--bench bytes|memchr|threaded] [--debug] file1 file2\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	benchFlag := flag.String("bench", "", "run a non-interactive timed benchmark of one differ strategy (bytes, memchr, threaded)")
	debugFlag := flag.Bool("debug", false, "enable step-timing diagnostics on stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	path1, path2 := flag.Arg(0), flag.Arg(1)
	tr := trace.NewTracker(*debugFlag)

	if *benchFlag != "" {
		strategy, err := differ.ParseStrategy(*benchFlag)
		if err != nil {
			os.Exit(fatal(2, "%v", err))
		}
		if err := runBenchmark(strategy, path1, path2); err != nil {
			os.Exit(fatal(1, "%v", err))
		}
		return
	}

	os.Exit(runInteractive(path1, path2, tr))
}

// runInteractive opens the file pair, wires the differ worker into the
// app loop, and runs the TUI to completion. A length mismatch or any
// open failure aborts before the TUI is ever entered — nothing to tear
// down yet, so the diagnostic goes straight to stderr (spec.md §7,
// "Argument" and "I/O" error classes).
func runInteractive(path1, path2 string, tr *trace.Tracker) int {
	file1, file2, length, err := posfile.OpenPair(path1, path2)
	if err != nil {
		return fatal(2, "%v", err)
	}
	defer file1.Close()
	defer file2.Close()
	tr.StepNext("opened %s and %s (%d bytes)", path1, path2, length)

	ctx := app.NewContext(file1, file2, length)

	scanA, err := os.Open(path1)
	if err != nil {
		return fatal(1, "%v", err)
	}
	defer scanA.Close()
	scanB, err := os.Open(path2)
	if err != nil {
		return fatal(1, "%v", err)
	}
	defer scanB.Close()

	diffs, errs := differ.Start(context.Background(), differ.Threaded, scanA, scanB)

	model := app.New(ctx, ui.NewDiffView(), diffs, errs)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// bubbletea restores the terminal (alt screen, raw mode, cursor)
	// before Run returns, including on a panic inside Update/View,
	// which is what spec.md §7's "restore terminal before surfacing a
	// diagnostic" requires here; this recover only handles a panic
	// that escapes bubbletea's own program loop (e.g. during Init).
	defer func() {
		if r := recover(); r != nil {
			os.Exit(fatal(1, "diskmend: fatal: %v", r))
		}
	}()

	finalModel, err := program.Run()
	if err != nil {
		return fatal(1, "%v", trace.Errorf("diskmend: tui: %v", err))
	}
	tr.StepNext("tui exited")

	m, ok := finalModel.(*app.Model)
	if !ok {
		return fatal(1, "diskmend: unexpected program model type")
	}
	if m.FatalErr != nil {
		return fatal(1, "%v", trace.Errorf("diskmend: differ: %v", m.FatalErr))
	}

	if m.Ctx.PendingApply {
		if err := apply.Run(m.Ctx, os.Stdout, tr); err != nil {
			return fatal(1, "%v", trace.Errorf("diskmend: apply: %v", err))
		}
	}
	return 0
}
