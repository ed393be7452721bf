package router

import (
	"github.com/abhisek/grammiz/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// Navigation messages. Screens return them from commands instead of
// holding a reference to the router.
type (
	// PushScreenMsg opens Screen above the current one.
	PushScreenMsg struct{ Screen screen.Screen }
	// PopScreenMsg closes the current screen.
	PopScreenMsg struct{}
	// ReplaceScreenMsg swaps the current screen for Screen.
	ReplaceScreenMsg struct{ Screen screen.Screen }
	// PopToRootMsg closes everything above the bottom screen.
	PopToRootMsg struct{}
)

// Router is the screen stack. A screen revealed by popping the ones above
// it is refreshed if it implements screen.Refresher; its Init is not rerun.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen. The bottom screen is never popped.
func (r *Router) Pop() tea.Cmd {
	return r.popTo(len(r.stack) - 1)
}

// Replace swaps the top screen for s and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if n := len(r.stack); n > 0 {
		r.stack[n-1] = s
	} else {
		r.stack = []screen.Screen{s}
	}
	return s.Init()
}

func (r *Router) PopToRoot() tea.Cmd {
	return r.popTo(1)
}

func (r *Router) popTo(depth int) tea.Cmd {
	depth = max(depth, 1)
	if len(r.stack) <= depth {
		return nil
	}
	clear(r.stack[depth:])
	r.stack = r.stack[:depth]
	if rf, ok := r.Active().(screen.Refresher); ok {
		return rf.Refresh()
	}
	return nil
}

// Active is the top screen, or nil on an empty stack.
func (r *Router) Active() screen.Screen {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return nil
}

func (r *Router) Depth() int { return len(r.stack) }

// Update acts on navigation messages and hands anything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}
	if len(r.stack) == 0 {
		return nil
	}
	top := len(r.stack) - 1
	updated, cmd := r.stack[top].Update(msg)
	r.stack[top] = updated
	return cmd
}

func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
