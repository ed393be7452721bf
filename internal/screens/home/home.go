package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/router"
	"github.com/abhisek/grammiz/internal/screen"
	"github.com/abhisek/grammiz/internal/screens/history"
	"github.com/abhisek/grammiz/internal/screens/placeholder"
	"github.com/abhisek/grammiz/internal/screens/trainer"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
	"github.com/abhisek/grammiz/internal/ui/components"
	"github.com/abhisek/grammiz/internal/ui/layout"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

// homeLoadedMsg carries per-topic stats read from the event store.
type homeLoadedMsg struct {
	Stats []store.TopicStat
	Err   error
}

// HomeScreen lists the topics to practice plus history and exit.
type HomeScreen struct {
	deps   trainer.Deps
	topics []*grammar.Topic
	menu   components.Menu
	stats  map[string]store.TopicStat

	focusing bool
	input    components.TextInput
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.EscapeHandler = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen over the registry's topics.
func New(deps trainer.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps, stats: make(map[string]store.TopicStat)}
	if deps.Registry != nil {
		h.topics = deps.Registry.Topics()
	}

	items := make([]components.MenuItem, 0, len(h.topics)+2)
	for _, t := range h.topics {
		id := t.ID
		items = append(items, components.MenuItem{
			Label: strings.ToUpper(t.Name),
			Action: func() tea.Cmd {
				next := trainer.New(h.deps, id)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			var next screen.Screen
			if h.deps.EventRepo == nil {
				next = placeholder.New("History", "History needs a database. Run without --no-db.")
			} else {
				next = history.New(h.deps.EventRepo, h.topicNames())
			}
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}},
		components.MenuItem{Label: "EXIT GAME", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	h.menu = components.NewMenu(items)
	return h
}

// Init loads topic stats. It runs again whenever the app returns home.
func (h *HomeScreen) Init() tea.Cmd {
	repo := h.deps.EventRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := repo.TopicStats(context.Background())
		return homeLoadedMsg{Stats: stats, Err: err}
	}
}

// Refresh reloads the stats when a session or the history screen closes.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.Init()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(homeLoadedMsg); ok {
		if msg.Err == nil {
			h.stats = make(map[string]store.TopicStat, len(msg.Stats))
			for _, st := range msg.Stats {
				h.stats[st.Topic] = st
			}
		}
		return h, nil
	}
	if h.focusing {
		return h, h.updateFocus(msg)
	}
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "f" {
		h.focusing = true
		h.input = components.NewTextInput("Focus on subjects (comma separated, empty clears)", "he, she", 80)
		h.input.Model.SetValue(strings.Join(h.deps.Subjects, ", "))
		return h, h.input.Init()
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// updateFocus edits the subject focus list.
func (h *HomeScreen) updateFocus(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			h.focusing = false
			return nil
		case "enter":
			subjects := h.input.Fields()
			if len(subjects) > 0 && !h.anyTopicHas(subjects) {
				h.input.Error = "No topic has those subjects"
				return nil
			}
			h.deps.Subjects = subjects
			h.focusing = false
			return nil
		}
	}
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return cmd
}

func (h *HomeScreen) anyTopicHas(subjects []string) bool {
	for _, t := range h.topics {
		if _, err := t.WithSubjects(subjects...); err == nil {
			return true
		}
	}
	return false
}

// Subjects returns the current subject focus.
func (h *HomeScreen) Subjects() []string {
	return h.deps.Subjects
}

func (h *HomeScreen) HandlesEscape() bool {
	return h.focusing
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.focusing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "1-9", Description: "Jump"},
		{Key: "F", Description: "Focus subjects"},
	}
}

func (h *HomeScreen) topicNames() map[string]string {
	names := make(map[string]string, len(h.topics))
	for _, t := range h.topics {
		names[string(t.ID)] = t.Name
	}
	return names
}

// rows pairs each menu item with the stats of its topic, if any.
func (h *HomeScreen) rows() []boardRow {
	rows := make([]boardRow, len(h.menu.Items))
	for i, item := range h.menu.Items {
		rows[i] = boardRow{Label: item.Label}
		if i < len(h.topics) {
			rows[i].Topic = true
			if st, ok := h.stats[string(h.topics[i].ID)]; ok {
				rows[i].Stat = &st
			}
		}
	}
	return rows
}

// totals aggregates stats across topics.
func (h *HomeScreen) totals() (sessions, best, accuracy int) {
	var attempts, correct int
	for _, st := range h.stats {
		sessions += st.Sessions
		best = max(best, st.BestScore)
		attempts += st.Attempts
		correct += st.Correct
	}
	return sessions, best, session.AccuracyPercent(correct, attempts)
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 26 || width < 100
	cw := components.ContentWidth(width)
	sessions, best, accuracy := h.totals()

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(sessions, best), cw))
	}
	sections = append(sections,
		renderSummary(sessions, best, accuracy, cw),
		renderBoard(h.rows(), h.menu.Selected, cw),
	)

	if h.menu.Selected < len(h.topics) && !compact {
		if desc := h.topics[h.menu.Selected].Description; desc != "" {
			sections = append(sections, renderNote(desc, cw))
		}
	}
	switch {
	case h.focusing:
		sections = append(sections, components.Card("Focus", h.input.View(), cw))
	case len(h.deps.Subjects) > 0:
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Highlight).Width(cw).Align(lipgloss.Center).
			Render("FOCUS: "+strings.Join(h.deps.Subjects, ", ")))
	}
	if h.deps.Tutor == nil {
		sections = append(sections, renderNote("Set an LLM API key to get AI explanations (see grammiz --help)", cw))
	}

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, sep))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
