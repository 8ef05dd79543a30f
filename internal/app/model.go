package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/diskmend/diskmend/internal/rangetree"
)

// diffMsg carries one range off the differ's unbounded channel, or
// signals (ok=false) that the channel has closed.
type diffMsg struct {
	r  rangetree.Range
	ok bool
}

// differErrMsg carries the differ's one fatal error, if any.
type differErrMsg struct {
	err error
}

// Model hosts the Context and layer Stack on bubbletea's Model/Update/
// View loop. bubbletea's own runtime performs the fair multi-way select
// between terminal input and the diffMsg/differErrMsg commands below —
// the "suspension point on the main thread" the design calls for,
// expressed the way a Go TUI actually implements it rather than as a
// hand-rolled select over raw channels.
type Model struct {
	Ctx   *Context
	Stack *Stack

	diffs   <-chan rangetree.Range
	errs    <-chan error
	width   int
	height  int

	// FatalErr is set when the differ reports a read failure; the App
	// loop quits immediately and the caller surfaces this after
	// restoring the terminal.
	FatalErr error
}

// New builds the Model for an interactive run. diffs and errs are the
// channels returned by differ.Start.
func New(ctx *Context, bottom Layer, diffs <-chan rangetree.Range, errs <-chan error) *Model {
	return &Model{
		Ctx:   ctx,
		Stack: NewStack(bottom),
		diffs: diffs,
		errs:  errs,
	}
}

func waitForDiff(ch <-chan rangetree.Range) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		return diffMsg{r: r, ok: ok}
	}
}

func waitForDifferErr(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return differErrMsg{err: err}
	}
}

// Init starts the two listeners: one draining diff ranges, re-issued
// after every range until the channel closes, and one that waits once
// for the differ's single fatal error (or the error channel closing).
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForDiff(m.diffs), waitForDifferErr(m.errs))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil

	case tea.KeyMsg:
		m.Stack.HandleKey(m.Ctx, typed)
		if m.Ctx.Exit {
			return m, tea.Quit
		}
		return m, nil

	case diffMsg:
		if !typed.ok {
			m.Ctx.AllDiffsLoaded = true
			return m, nil
		}
		m.Ctx.Diffs.Append(typed.r)
		return m, waitForDiff(m.diffs)

	case differErrMsg:
		m.FatalErr = typed.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) View() string {
	return m.Stack.Render(m.Ctx, m.width, m.height)
}
