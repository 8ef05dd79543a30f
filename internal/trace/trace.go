// Package trace provides the small amount of structured logging and
// step-timing the tool needs outside of its interactive rendering:
// fatal-error logging through logrus, and the --debug step tracker the
// interactive run and apply stage use to report phase timings and
// throughput.
package trace

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diskmend/diskmend/internal/term"
)

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// component walks frame.Function (e.g.
// "github.com/diskmend/diskmend/internal/apply.Run") down to just the
// package the caller lives in ("apply"), since logging the full import
// path on every line is noise in a tool with a handful of packages.
func component(function string) string {
	if i := strings.LastIndexByte(function, '/'); i >= 0 {
		function = function[i+1:]
	}
	if i := strings.IndexByte(function, '.'); i >= 0 {
		function = function[:i]
	}
	return function
}

// Location returns the short package name and line number of the
// caller skip frames up the stack (skip=1 is Location's own caller, as
// with runtime.Caller), using runtime.Callers/CallersFrames rather than
// a single runtime.Caller so it resolves correctly even when inlining
// collapses intermediate frames.
func Location(skip int) (string, int) {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return "?", 0
	}
	frame, _ := runtime.CallersFrames(pcs[:n]).Next()
	if frame.Function == "" {
		return "?", frame.Line
	}
	return component(frame.Function), frame.Line
}

// Errorf logs the formatted message through logrus, tagged with the
// caller's package and line, and returns it as an error for the caller
// to propagate.
func Errorf(format string, a ...any) error {
	pkg, line := Location(2)
	msg := fmt.Sprintf(format, a...)
	logrus.WithField("at", fmt.Sprintf("%s:%d", pkg, line)).Error(msg)
	return errors.New(msg)
}

// Tracker reports elapsed time and, for byte-oriented steps, throughput
// between named steps to stderr when debug mode is on, and is a no-op
// otherwise.
type Tracker struct {
	debug bool
	level term.Level
	last  time.Time
}

// NewTracker returns a Tracker. When debugMode is false, StepNext and
// StepBytes cost a single boolean check. Color level is sampled once
// from term.PostTUILevel, the shared post-TUI stderr level.
func NewTracker(debugMode bool) *Tracker {
	return &Tracker{debug: debugMode, level: term.PostTUILevel, last: time.Now()}
}

// StepNext logs the time elapsed since the previous Step call (or since
// the tracker was created) alongside a formatted label.
func (t *Tracker) StepNext(format string, a ...any) {
	if !t.debug {
		return
	}
	label := strings.Trim(fmt.Sprintf(format, a...), "\n")
	now := time.Now()
	fmt.Fprintln(os.Stderr, t.level.Trace(fmt.Sprintf("* %s took %v", label, now.Sub(t.last))))
	t.last = now
}

// StepBytes is StepNext extended with a throughput figure, for steps
// that moved a known number of bytes (apply's copies): the report reads "label took <dur> (<rate> MiB/s)".
func (t *Tracker) StepBytes(n int64, format string, a ...any) {
	if !t.debug {
		return
	}
	label := strings.Trim(fmt.Sprintf(format, a...), "\n")
	now := time.Now()
	elapsed := now.Sub(t.last)
	rateMiB := float64(n) / elapsed.Seconds() / (1 << 20)
	fmt.Fprintln(os.Stderr, t.level.Trace(fmt.Sprintf("* %s took %v (%.2f MiB/s)", label, elapsed, rateMiB)))
	t.last = now
}
