package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammiz/internal/screen"
)

type refreshMsg string

// stubScreen counts Init calls. Wrapped in refreshingScreen it also counts
// refreshes.
type stubScreen struct {
	title     string
	inits     int
	refreshes int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

type refreshingScreen struct{ *stubScreen }

func (s refreshingScreen) Refresh() tea.Cmd {
	s.refreshes++
	title := s.title
	return func() tea.Msg { return refreshMsg(title) }
}

// stack builds a router over screens titled by the given names.
func stack(names ...string) (*Router, []*stubScreen) {
	screens := make([]*stubScreen, len(names))
	for i, n := range names {
		screens[i] = &stubScreen{title: n}
	}
	r := New(screens[0])
	for _, s := range screens[1:] {
		r.Push(s)
	}
	return r, screens
}

func TestPushRunsInit(t *testing.T) {
	r, screens := stack("home", "trainer")
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "trainer", r.Active().Title())
	assert.Equal(t, 1, screens[1].inits)
	assert.Zero(t, screens[0].inits, "the initial screen is initialised by the app")
}

func TestNavigationMessages(t *testing.T) {
	tests := []struct {
		name      string
		msg       tea.Msg
		wantDepth int
		wantTitle string
	}{
		{"push", PushScreenMsg{Screen: &stubScreen{title: "history"}}, 4, "history"},
		{"pop", PopScreenMsg{}, 2, "trainer"},
		{"replace", ReplaceScreenMsg{Screen: &stubScreen{title: "play again"}}, 3, "play again"},
		{"pop to root", PopToRootMsg{}, 1, "home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := stack("home", "trainer", "summary")
			r.Update(tt.msg)
			assert.Equal(t, tt.wantDepth, r.Depth())
			assert.Equal(t, tt.wantTitle, r.Active().Title())
			assert.Equal(t, tt.wantTitle, r.View(80, 24))
		})
	}
}

func TestBottomScreenIsNeverPopped(t *testing.T) {
	r, _ := stack("home")
	assert.Nil(t, r.Pop())
	assert.Nil(t, r.PopToRoot())
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "home", r.Active().Title())
}

func TestReplaceRunsInit(t *testing.T) {
	r, _ := stack("splash")
	next := &stubScreen{title: "home"}
	r.Replace(next)
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, 1, next.inits)
}

func TestRevealedScreenIsRefreshed(t *testing.T) {
	home := refreshingScreen{&stubScreen{title: "home"}}
	r := New(home)
	r.Push(&stubScreen{title: "trainer"})
	r.Push(&stubScreen{title: "summary"})

	cmd := r.Update(PopToRootMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, refreshMsg("home"), cmd())
	assert.Equal(t, 1, home.refreshes)

	r.Push(&stubScreen{title: "history"})
	cmd = r.Pop()
	require.NotNil(t, cmd)
	assert.Equal(t, 2, home.refreshes)
	assert.Zero(t, home.inits, "refresh does not rerun Init")
}

func TestPopWithoutRefresher(t *testing.T) {
	r, screens := stack("home", "trainer")
	assert.Nil(t, r.Pop())
	assert.Zero(t, screens[0].inits)
}
