// Package ui implements the two interactive layers — the diff view and
// the confirmation popup — plus the hex/ASCII row renderer they share.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors mirror the palette internal/term uses for non-interactive
// output; lipgloss handles its own terminal-capability degradation here
// instead of internal/term.Level, since the diff view needs background
// fills that the foreground-only trace palette doesn't model.
var (
	colorDiffBg     = lipgloss.Color("#5a3e00") // current diff, background highlight
	colorMergedInto = lipgloss.Color("#e8d44d") // yellow: merged into this side
	colorMergedFrom = lipgloss.Color("#4fd67a") // green: merged from this side
	colorUnmerged   = lipgloss.Color("#9fe6ad") // light green: leave unmerged
	colorDiff       = lipgloss.Color("#ff5f5f") // red: unclassified diff
	colorDim        = lipgloss.Color("#808080")

	styleGutter       = lipgloss.NewStyle().Foreground(colorDim)
	styleInstructions = lipgloss.NewStyle().Foreground(colorDim)
	styleStatus       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)

	styleDiffBg     = lipgloss.NewStyle().Background(colorDiffBg)
	styleMergedInto = lipgloss.NewStyle().Foreground(colorMergedInto)
	styleMergedFrom = lipgloss.NewStyle().Foreground(colorMergedFrom)
	styleUnmerged   = lipgloss.NewStyle().Foreground(colorUnmerged)
	styleDiff       = lipgloss.NewStyle().Foreground(colorDiff)

	stylePopupBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#808080")).
				Padding(1, 2)
	stylePopupTitle    = lipgloss.NewStyle().Bold(true)
	styleButton        = lipgloss.NewStyle().Padding(0, 2)
	styleButtonActive  = styleButton.Background(lipgloss.Color("#3465a4")).Foreground(lipgloss.Color("#ffffff"))
	styleButtonDefault = styleButton.Foreground(colorDim)
)
