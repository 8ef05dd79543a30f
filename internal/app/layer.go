package app

import tea "github.com/charmbracelet/bubbletea"

// Layer is a modal UI overlay. Only the topmost layer on the Stack
// receives input; every layer renders, bottom to top.
type Layer interface {
	// HandleKey processes a key event. The layer may record deferred
	// Push/Pop requests on cl rather than mutating the stack directly,
	// since the stack itself is not visible to the layer.
	HandleKey(ctx *Context, msg tea.KeyMsg, cl *ChangeList)
	// Render draws this layer over below, the composite produced by
	// every layer underneath it, and returns the new composite.
	Render(ctx *Context, width, height int, below string) string
}

// ChangeList buffers the stack mutations a layer requests while handling
// one key event. The stack applies it after HandleKey returns, so a
// layer never observes a stack mid-mutation.
type ChangeList struct {
	pushes []Layer
	pops   int
}

// Push defers pushing l onto the stack.
func (cl *ChangeList) Push(l Layer) {
	cl.pushes = append(cl.pushes, l)
}

// Pop defers popping the topmost layer.
func (cl *ChangeList) Pop() {
	cl.pops++
}

// Stack is an ordered sequence of layers. The bottom layer is always the
// diff view; every other layer is transient.
type Stack struct {
	layers []Layer
}

// NewStack returns a Stack with bottom as its sole, permanent layer.
func NewStack(bottom Layer) *Stack {
	return &Stack{layers: []Layer{bottom}}
}

// Top returns the topmost layer, or nil if the stack is somehow empty.
func (s *Stack) Top() Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// HandleKey delivers msg to the topmost layer and applies the resulting
// change-list.
func (s *Stack) HandleKey(ctx *Context, msg tea.KeyMsg) {
	top := s.Top()
	if top == nil {
		return
	}
	var cl ChangeList
	top.HandleKey(ctx, msg, &cl)
	s.apply(&cl)
}

func (s *Stack) apply(cl *ChangeList) {
	for i := 0; i < cl.pops && len(s.layers) > 1; i++ {
		s.layers = s.layers[:len(s.layers)-1]
	}
	s.layers = append(s.layers, cl.pushes...)
}

// Render composes every layer's output, bottom to top, into the final
// frame.
func (s *Stack) Render(ctx *Context, width, height int) string {
	var out string
	for _, l := range s.layers {
		out = l.Render(ctx, width, height, out)
	}
	return out
}
