package home

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/router"
	"github.com/abhisek/grammiz/internal/screens/history"
	"github.com/abhisek/grammiz/internal/screens/placeholder"
	"github.com/abhisek/grammiz/internal/screens/trainer"
	"github.com/abhisek/grammiz/internal/store"
)

func testDeps(t *testing.T) trainer.Deps {
	t.Helper()
	topics, err := grammar.Builtin()
	require.NoError(t, err)
	reg, err := problemgen.NewRegistry(topics)
	require.NoError(t, err)
	return trainer.Deps{Registry: reg}
}

func selectItem(t *testing.T, h *HomeScreen, index int) tea.Msg {
	t.Helper()
	for i := 0; i < index; i++ {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	return cmd()
}

func TestHome_ListsTopics(t *testing.T) {
	h := New(testDeps(t))
	rows := h.rows()
	require.Len(t, rows, len(h.topics)+2)
	assert.Equal(t, "HISTORY", rows[len(rows)-2].Label)
	assert.Equal(t, "EXIT GAME", rows[len(rows)-1].Label)
	assert.False(t, rows[len(rows)-1].Topic)
	for i, topic := range h.topics {
		assert.Equal(t, strings.ToUpper(topic.Name), rows[i].Label)
		assert.True(t, rows[i].Topic)
		assert.Nil(t, rows[i].Stat)
	}
}

func TestHome_NumberKeyStartsTopic(t *testing.T) {
	h := New(testDeps(t))
	_, cmd := h.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, h.topics[1].Name, msg.Screen.Title())
}

func TestHome_UpWrapsToExit(t *testing.T) {
	h := New(testDeps(t))
	h.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, len(h.menu.Items)-1, h.menu.Selected)
}

func TestHome_TopicPushesTrainer(t *testing.T) {
	h := New(testDeps(t))
	msg, ok := selectItem(t, h, 1).(router.PushScreenMsg)
	require.True(t, ok)
	tr, ok := msg.Screen.(*trainer.TrainerScreen)
	require.True(t, ok)
	assert.Equal(t, h.topics[1].Name, tr.Title())
}

func TestHome_HistoryWithoutStore(t *testing.T) {
	h := New(testDeps(t))
	msg, ok := selectItem(t, h, len(h.topics)).(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = msg.Screen.(*placeholder.PlaceholderScreen)
	assert.True(t, ok)
}

func TestHome_HistoryWithStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "home.db"))
	require.NoError(t, err)
	defer st.Close()

	deps := testDeps(t)
	deps.EventRepo = st.EventRepo()
	h := New(deps)
	msg, ok := selectItem(t, h, len(h.topics)).(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = msg.Screen.(*history.HistoryScreen)
	assert.True(t, ok)
}

func TestHome_BestScoresOnBoard(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "home.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	repo := st.EventRepo()
	require.NoError(t, repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID: "s1", Topic: "to-be", Archetype: "fill-in", Tier: "easy", Correct: true,
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: "s1", Topic: "to-be", Action: store.ActionEnd,
		QuestionsAnswered: 1, CorrectAnswers: 1, Score: 12,
	}))

	deps := testDeps(t)
	deps.EventRepo = repo
	h := New(deps)
	h.Update(h.Init()())

	rows := h.rows()
	for i, topic := range h.topics {
		if topic.ID == "to-be" {
			require.NotNil(t, rows[i].Stat)
			assert.Equal(t, 12, rows[i].Stat.BestScore)
		} else {
			assert.Nil(t, rows[i].Stat)
		}
	}
	assert.Contains(t, ansi.Strip(h.View(120, 40)), "★12")

	sessions, best, accuracy := h.totals()
	assert.Equal(t, 1, sessions)
	assert.Equal(t, 12, best)
	assert.Equal(t, 100, accuracy)
	assert.Equal(t, MascotCelebrating, mascotFor(sessions, best))
}

func TestHome_ViewRenders(t *testing.T) {
	h := New(testDeps(t))
	view := ansi.Strip(h.View(120, 40))
	assert.Contains(t, view, "HISTORY")
	assert.Contains(t, view, "No sessions yet")
	assert.Contains(t, view, "not played")
}

func TestMascotFor(t *testing.T) {
	assert.Equal(t, MascotSleepy, mascotFor(0, 0))
	assert.Equal(t, MascotIdle, mascotFor(3, 4))
	assert.Equal(t, MascotCelebrating, mascotFor(3, 10))
}

func openFocus(t *testing.T, h *HomeScreen, value string) {
	t.Helper()
	h.Update(tea.KeyPressMsg{Code: 'f', Text: "f"})
	require.True(t, h.focusing)
	assert.True(t, h.HandlesEscape())
	h.input.Model.SetValue(value)
}

func TestHome_FocusSubjects(t *testing.T) {
	h := New(testDeps(t))
	openFocus(t, h, "he, she")

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, h.focusing)
	assert.Equal(t, []string{"he", "she"}, h.Subjects())

	msg, ok := selectItem(t, h, 0).(router.PushScreenMsg)
	require.True(t, ok)
	tr, ok := msg.Screen.(*trainer.TrainerScreen)
	require.True(t, ok)
	assert.Equal(t, h.topics[0].Name, tr.Title())
}

func TestHome_FocusRejectsUnknownSubjects(t *testing.T) {
	h := New(testDeps(t))
	openFocus(t, h, "nobody")

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, h.focusing)
	assert.Equal(t, "No topic has those subjects", h.input.Error)
	assert.Empty(t, h.Subjects())
}

func TestHome_FocusEmptyClears(t *testing.T) {
	deps := testDeps(t)
	deps.Subjects = []string{"he"}
	h := New(deps)
	openFocus(t, h, " , ")

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, h.focusing)
	assert.Empty(t, h.Subjects())
}

func TestHome_FocusEscapeCancels(t *testing.T) {
	h := New(testDeps(t))
	openFocus(t, h, "they")

	h.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, h.focusing)
	assert.False(t, h.HandlesEscape())
	assert.Empty(t, h.Subjects())
}

func TestHome_FocusShownInView(t *testing.T) {
	deps := testDeps(t)
	deps.Subjects = []string{"we"}
	h := New(deps)
	assert.Contains(t, ansi.Strip(h.View(120, 40)), "FOCUS: we")
}
