package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestFormatRowSeparatesGroups(t *testing.T) {
	data := []byte("0123456789abcdef")
	row := FormatRow(data, func(int) lipgloss.Style { return lipgloss.NewStyle() })
	assert.Contains(t, row, "30 31 32 33 34 35 36 37  38 39 61 62 63 64 65 66")
	assert.True(t, strings.HasSuffix(row, "0123456789abcdef"))
}

func TestFormatRowPadsShortFinalRow(t *testing.T) {
	data := []byte{0xAA}
	row := FormatRow(data, func(int) lipgloss.Style { return lipgloss.NewStyle() })
	assert.Contains(t, row, "aa")
	assert.True(t, strings.HasSuffix(row, "."+strings.Repeat(" ", 15)))
}

func TestFormatRowNonPrintableIsDot(t *testing.T) {
	data := []byte{0x00, 0x1f, 0x7f}
	row := FormatRow(data, func(int) lipgloss.Style { return lipgloss.NewStyle() })
	assert.True(t, strings.HasSuffix(row, "..."+strings.Repeat(" ", 13)))
}

func TestRowCacheRoundtrip(t *testing.T) {
	rc := NewRowCache()
	rc.Set("key", "value")
	rc.Wait()
	got, ok := rc.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}
