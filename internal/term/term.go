// Package term detects terminal color capability for the two surfaces
// in this tool that print outside of bubbletea's renderer: the --debug
// step tracer (internal/trace) and the apply-stage progress output
// (internal/apply), both of which only ever run once the TUI has
// already torn down its alt screen and raw mode.
//
// Raw mode and the alternate screen buffer are bubbletea's job inside
// the interactive loop (tea.WithAltScreen in cmd/diskmend), not this
// package's: there is nothing left for this tool to detect or restore
// on the one code path that needs a terminal mode, so this package
// limits itself to the one thing post-TUI output actually needs, color
// level.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Level is the color capability of a terminal stream.
type Level int

const (
	LevelNone Level = iota
	Level256
	Level16M
)

// PostTUILevel is sampled once at process start from stderr, the stream
// the step tracer and the CLI's diagnostics write to. The apply stage's
// completion lines (written to its output, stdout in cmd/diskmend) use
// the same level, so every post-TUI writer agrees on whether to color.
var PostTUILevel = DetectLevel(os.Stderr.Fd())

// IsTerminal reports whether fd refers to an interactive terminal,
// including a Cygwin/MSYS2 pty on Windows.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
}

// DetectLevel reports the color level fd supports, honoring NO_COLOR,
// COLORTERM, TERM and Windows Terminal's WT_SESSION the same way the
// rest of the ecosystem does.
func DetectLevel(fd uintptr) Level {
	if !IsTerminal(fd) {
		return LevelNone
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return LevelNone
	}
	if _, ok := os.LookupEnv("WT_SESSION"); ok {
		return Level16M
	}
	colorTerm := os.Getenv("COLORTERM")
	termEnv := os.Getenv("TERM")
	if containsAny(termEnv, "24bit", "truecolor") || containsAny(colorTerm, "24bit", "truecolor") {
		return Level16M
	}
	if strings.Contains(termEnv, "256") || strings.Contains(colorTerm, "256") {
		return Level256
	}
	return LevelNone
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
