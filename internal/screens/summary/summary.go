package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/router"
	"github.com/abhisek/grammiz/internal/screen"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/ui/components"
	"github.com/abhisek/grammiz/internal/ui/layout"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

// SummaryScreen displays the result of a finished session.
type SummaryScreen struct {
	summary   *session.SessionSummary
	topicName string
	best      int
	playAgain func() screen.Screen
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. best is the previous best score for the
// topic. playAgain may be nil, in which case replaying is not offered.
func New(summary *session.SessionSummary, topicName string, best int, playAgain func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, topicName: topicName, best: best, playAgain: playAgain}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

// HandlesEscape keeps Esc from popping back to the finished trainer.
func (s *SummaryScreen) HandlesEscape() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
	if s.playAgain != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Play again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "r", "R":
			if s.playAgain != nil {
				next := s.playAgain()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

// NewBest reports whether the session beat the previous best score.
func (s *SummaryScreen) NewBest() bool {
	return s.summary != nil && s.summary.Score > 0 && s.summary.Score > s.best
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	title := "Session complete!"
	if sum.LivesLeft == 0 {
		title = "Out of lives!"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), title))
	b.WriteString("\n")
	if s.topicName != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Secondary), s.topicName))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	scoreLine := fmt.Sprintf("Score: %d        Best streak: %d", sum.Score, sum.MaxStreak)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true), scoreLine))
	b.WriteString("\n")
	if s.NewBest() {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), "New best score!"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %d%%",
		sum.QuestionsAnswered, sum.CorrectAnswers, sum.Accuracy)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	bar := components.NewProgressBar("Accuracy", float64(sum.Accuracy)/100, true, barWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if len(sum.Results) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", barWidth))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Question styles")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, r := range sum.Results {
			if r.Attempted == 0 {
				continue
			}
			line := fmt.Sprintf("%-18s %d/%d correct", r.Archetype.Label(), r.Correct, r.Attempted)
			style := lipgloss.NewStyle().Foreground(theme.Text)
			if r.Correct == r.Attempted {
				style = style.Foreground(theme.Success)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
