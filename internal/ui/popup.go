package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diskmend/diskmend/internal/app"
)

// Popup is a centered modal yes/no confirmation layer. It blocks all
// input to layers beneath it; NO is the default selection.
type Popup struct {
	Title string
	// Body returns the popup's body lines, computed fresh against ctx
	// on every render — the original's QuitPopup/ApplyChangesPopup
	// bodies report live classification counts rather than fixed text,
	// and those counts can only be read from ctx at render time.
	Body func(ctx *app.Context) []string
	// Selected is true when YES is highlighted.
	Selected bool
	// OnYes runs when the user confirms. It may mutate ctx (e.g. set
	// Exit or PendingApply) and is never invoked on cancel.
	OnYes func(ctx *app.Context, cl *app.ChangeList)
}

// NewQuitConfirmPopup returns the popup `q` pushes when classifications
// are pending, its body reporting the live unapplied-change count the
// way the original's QuitPopup does.
func NewQuitConfirmPopup() *Popup {
	return &Popup{
		Title: "Quit without applying?",
		Body: func(ctx *app.Context) []string {
			n := ctx.MergesOneIntoTwo.Len() + ctx.MergesTwoIntoOne.Len()
			return []string{
				fmt.Sprintf("There are %d unapplied changes.", n),
				"Quit without applying them?",
			}
		},
		OnYes: func(ctx *app.Context, _ *app.ChangeList) {
			ctx.Exit = true
		},
	}
}

// NewApplyConfirmPopup returns the popup `a`/`w` pushes, its body
// reporting a live per-direction breakdown the way the original's
// ApplyChangesPopup does.
func NewApplyConfirmPopup() *Popup {
	return &Popup{
		Title: "Apply classified ranges?",
		Body: func(ctx *app.Context) []string {
			total := ctx.Diffs.Len()
			q := provisionalSuffix(ctx)
			return []string{
				fmt.Sprintf("Merged left <:  %d/%d%s", ctx.MergesTwoIntoOne.Len(), total, q),
				fmt.Sprintf("Merged right >: %d/%d%s", ctx.MergesOneIntoTwo.Len(), total, q),
				fmt.Sprintf("Unchanged =:    %d/%d%s", ctx.LeaveUnmerged.Len(), total, q),
				"This writes merged ranges back to both files in place.",
			}
		},
		OnYes: func(ctx *app.Context, _ *app.ChangeList) {
			ctx.PendingApply = true
			ctx.Exit = true
		},
	}
}

func (p *Popup) HandleKey(ctx *app.Context, msg tea.KeyMsg, cl *app.ChangeList) {
	switch msg.String() {
	case "left", "right":
		p.Selected = !p.Selected
	case "enter":
		if p.Selected && p.OnYes != nil {
			p.OnYes(ctx, cl)
		}
		cl.Pop()
	case "esc", "q":
		cl.Pop()
	}
}

func (p *Popup) Render(ctx *app.Context, width, height int, below string) string {
	var b strings.Builder
	b.WriteString(stylePopupTitle.Render(p.Title))
	b.WriteString("\n\n")
	for _, line := range p.Body(ctx) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	yes, no := styleButtonDefault, styleButtonDefault
	if p.Selected {
		yes = styleButtonActive
	} else {
		no = styleButtonActive
	}
	b.WriteString(yes.Render("<YES>"))
	b.WriteString("  ")
	b.WriteString(no.Render("<NO>"))

	box := stylePopupBorder.Render(b.String())
	return overlayCenter(below, box, width, height)
}
