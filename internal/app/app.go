package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/router"
	"github.com/abhisek/grammiz/internal/screen"
	"github.com/abhisek/grammiz/internal/screens/home"
	"github.com/abhisek/grammiz/internal/screens/trainer"
	"github.com/abhisek/grammiz/internal/screens/welcome"
	"github.com/abhisek/grammiz/internal/ui/layout"
)

// Options configures the interactive program.
type Options struct {
	Deps trainer.Deps

	// Topic starts a session for this topic straight away when set.
	Topic grammar.TopicID

	// SkipSplash skips the welcome animation.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model: a screen stack inside a header
// and footer.
type AppModel struct {
	router   *router.Router
	initCmds []tea.Cmd
	width    int
	height   int
}

// newAppModel starts on the splash, on home, or on a session for
// opts.Topic stacked above home so leaving it lands on the topic board.
func newAppModel(opts Options) AppModel {
	toHome := func() screen.Screen { return home.New(opts.Deps) }

	var root screen.Screen = welcome.New(toHome)
	if opts.SkipSplash || opts.Topic != "" {
		root = toHome()
	}
	r := router.New(root)
	m := AppModel{router: r, initCmds: []tea.Cmd{root.Init()}}
	if opts.Topic != "" {
		m.initCmds = append(m.initCmds, r.Push(trainer.New(opts.Deps, opts.Topic)))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.initCmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Screens that confirm before leaving get the key themselves.
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() == 1 {
				return m, nil
			}
			return m, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		active := m.router.Active()
		var title string
		var stats layout.HeaderStats
		if active != nil {
			title = active.Title()
			if sp, ok := active.(screen.StatsProvider); ok {
				stats = sp.HeaderStats()
			}
		}
		header := layout.RenderHeader(title, stats, m.width)
		footer := layout.RenderFooter(footerHints(active, m.router.Depth()), m.width)
		v.SetContent(layout.RenderFrame(header, footer, m.width, m.height, m.router.View))
	}
	return v
}

var quitHint = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}

// footerHints uses the screen's own hints when it has any, and otherwise
// falls back to list navigation on the root and Back above it.
func footerHints(active screen.Screen, depth int) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		return append(kp.KeyHints(), quitHint)
	}
	if depth > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quitHint}
	}
	return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, quitHint}
}

// Run shows the program until the learner quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if _, err := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
