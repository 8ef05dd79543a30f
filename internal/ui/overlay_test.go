package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayCenterReplacesLines(t *testing.T) {
	below := strings.Join([]string{"aaaa", "bbbb", "cccc", "dddd"}, "\n")
	box := "XX"

	got := overlayCenter(below, box, 4, 4)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "XX")
	assert.Equal(t, "aaaa", lines[0])
	assert.Equal(t, "dddd", lines[3])
}

func TestOverlayCenterGrowsShortBelow(t *testing.T) {
	// top = (5-1)/2 = 2, so below grows to top+boxH = 3 lines.
	got := overlayCenter("one line", "box", 20, 5)
	assert.Equal(t, 3, len(strings.Split(got, "\n")))
}
