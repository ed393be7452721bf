package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/router"
	"github.com/abhisek/grammiz/internal/screen"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
	"github.com/abhisek/grammiz/internal/ui/components"
	"github.com/abhisek/grammiz/internal/ui/layout"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

// maxSessions is the number of recent sessions listed.
const maxSessions = 50

type historyLoadedMsg struct {
	Sessions []store.SessionEvent
	Topics   []store.TopicStat
	Err      error
}

type mistakesLoadedMsg struct {
	SessionID string
	Mistakes  []store.AnswerEvent
	Err       error
}

// review is the expanded detail of one session.
type review struct {
	loaded   bool
	mistakes []store.AnswerEvent
	err      error
}

// HistoryScreen lists per-topic totals and past sessions. Opening a session
// shows the answers missed in it.
type HistoryScreen struct {
	eventRepo store.EventRepo
	names     map[string]string
	sessions  []store.SessionEvent
	topics    []store.TopicStat
	selected  int
	open      string // session ID whose review is shown
	reviews   map[string]*review
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. names maps topic IDs to display names.
func New(eventRepo store.EventRepo, names map[string]string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		names:     names,
		reviews:   make(map[string]*review),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()
		sessions, err := repo.RecentSessions(ctx, store.QueryOpts{Limit: maxSessions})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		// Topic totals are optional; the session list is still useful without them.
		topics, _ := repo.TopicStats(ctx)
		return historyLoadedMsg{Sessions: sessions, Topics: topics}
	}
}

func (s *HistoryScreen) loadMistakes(id string) tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		mistakes, err := repo.SessionMistakes(context.Background(), id)
		return mistakesLoadedMsg{SessionID: id, Mistakes: mistakes, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	open := "Review mistakes"
	if s.open != "" {
		open = "Close review"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: open},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.sessions = msg.Sessions
		s.topics = msg.Topics
		return s, nil

	case mistakesLoadedMsg:
		s.reviews[msg.SessionID] = &review{loaded: true, mistakes: msg.Mistakes, err: msg.Err}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.selected = max(s.selected-1, 0)
			s.open = ""
		case "down", "j":
			s.selected = max(min(s.selected+1, len(s.sessions)-1), 0)
			s.open = ""
		case "enter":
			return s, s.toggle()
		}
	}
	return s, nil
}

// toggle opens or closes the review of the selected session, loading its
// mistakes the first time.
func (s *HistoryScreen) toggle() tea.Cmd {
	if s.selected >= len(s.sessions) {
		return nil
	}
	id := s.sessions[s.selected].SessionID
	if s.open == id {
		s.open = ""
		return nil
	}
	s.open = id
	if _, ok := s.reviews[id]; ok {
		return nil
	}
	s.reviews[id] = &review{}
	return s.loadMistakes(id)
}

func (s *HistoryScreen) topicName(id string) string {
	if n, ok := s.names[id]; ok && n != "" {
		return n
	}
	return id
}

var (
	dimStyle      = lipgloss.NewStyle().Foreground(theme.TextDim)
	headingStyle  = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	rowStyle      = lipgloss.NewStyle().Foreground(theme.Text)
	selectedStyle = lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(theme.Error).Strikethrough(true)
	rightStyle    = lipgloss.NewStyle().Foreground(theme.Success)
	meterStyle    = lipgloss.NewStyle().Foreground(theme.Secondary)
)

func (s *HistoryScreen) View(width, height int) string {
	var body string
	switch {
	case s.errMsg != "":
		body = lipgloss.NewStyle().Foreground(theme.Error).Render("Could not load history: " + s.errMsg)
	case !s.loaded:
		body = dimStyle.Render("Loading history...")
	case len(s.sessions) == 0:
		body = dimStyle.Italic(true).Render("No sessions yet. Finish a session and it will show up here.")
	default:
		cw := components.ContentWidth(width)
		parts := []string{}
		if len(s.topics) > 0 {
			parts = append(parts, s.renderTopics(cw))
		}
		parts = append(parts, s.renderSessions(cw, height))
		body = strings.Join(parts, "\n\n")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+body)
}

func (s *HistoryScreen) renderTopics(cw int) string {
	lines := []string{headingStyle.Render("Topics")}
	for _, t := range s.topics {
		acc := session.AccuracyPercent(t.Correct, t.Attempts)
		lines = append(lines, fmt.Sprintf("%-16s %s %3d%%  %s  %s",
			s.topicName(t.Topic),
			meterStyle.Render(components.Cells(float64(acc)/100, 8)), acc,
			dimStyle.Render(fmt.Sprintf("%2d sessions", t.Sessions)),
			dimStyle.Render(fmt.Sprintf("best %d", t.BestScore))))
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}

// renderSessions lists sessions around the selection so it stays visible,
// with the open review under its session.
func (s *HistoryScreen) renderSessions(cw, height int) string {
	visible := max(height-len(s.topics)-8, 3)
	first := max(0, min(s.selected-visible/2, len(s.sessions)-visible))
	last := min(first+visible, len(s.sessions))

	lines := []string{headingStyle.Render("Recent sessions")}
	for i := first; i < last; i++ {
		sess := s.sessions[i]
		line := fmt.Sprintf("%s  %-14s %d:%02d  score %-3d %d%% accuracy",
			sess.Timestamp.Format("Jan 02 15:04"), s.topicName(sess.Topic),
			sess.DurationSecs/60, sess.DurationSecs%60, sess.Score,
			session.AccuracyPercent(sess.CorrectAnswers, sess.QuestionsAnswered))
		if i == s.selected {
			lines = append(lines, selectedStyle.Render("▸ "+line))
		} else {
			lines = append(lines, rowStyle.Render("  "+line))
		}
		if sess.SessionID == s.open {
			lines = append(lines, s.renderReview(sess, cw))
		}
	}
	if last < len(s.sessions) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  … %d more", len(s.sessions)-last)))
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}

func (s *HistoryScreen) renderReview(sess store.SessionEvent, cw int) string {
	header := fmt.Sprintf("%d/%d correct, best streak %d",
		sess.CorrectAnswers, sess.QuestionsAnswered, sess.MaxStreak)
	r := s.reviews[sess.SessionID]
	var lines []string
	switch {
	case r == nil || !r.loaded:
		lines = append(lines, dimStyle.Render("Loading mistakes..."))
	case r.err != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render(r.err.Error()))
	case len(r.mistakes) == 0:
		lines = append(lines, rightStyle.Render("No mistakes in this session."))
	default:
		for _, m := range r.mistakes {
			answer := wrongStyle.Render(m.ChosenAnswer)
			if m.TimedOut || m.ChosenAnswer == "" {
				answer = dimStyle.Render("(no answer)")
			}
			lines = append(lines,
				rowStyle.Render(m.Prompt),
				"  "+answer+dimStyle.Render(" → ")+rightStyle.Render(m.CorrectAnswer))
		}
	}
	return components.Card(header, strings.Join(lines, "\n"), cw)
}
