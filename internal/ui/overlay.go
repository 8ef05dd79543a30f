package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// overlayCenter replaces the vertical span of below that a centered box
// would occupy with that box, line for line. Overlaying at the
// character level would require ANSI-aware splicing mid-line; replacing
// whole lines is enough for a modal popup, since every row below also
// resets its styling before the line break.
func overlayCenter(below, box string, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxW := lipgloss.Width(box)
	boxH := len(boxLines)

	left := (width - boxW) / 2
	if left < 0 {
		left = 0
	}
	top := (height - boxH) / 2
	if top < 0 {
		top = 0
	}

	belowLines := strings.Split(below, "\n")
	for len(belowLines) < top+boxH {
		belowLines = append(belowLines, "")
	}

	for i, line := range boxLines {
		belowLines[top+i] = strings.Repeat(" ", left) + line
	}

	return strings.Join(belowLines, "\n")
}
