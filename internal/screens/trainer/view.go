package trainer

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

func (s *TrainerScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.ctrl == nil || s.ctrl.State().CurrentQuestion == nil {
		return renderLoading(width)
	}
	if s.quitConfirm {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	cw := min(width-8, 70)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(s.choice.View())))

	if s.result != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width, cw))
	} else {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Select (1-4) or use arrows + Enter"))
	}
	return b.String()
}

// renderInfoLine shows the question style and tier on the left and the
// streak and countdown on the right.
func (s *TrainerScreen) renderInfoLine(width int) string {
	st := s.ctrl.State()
	q := st.CurrentQuestion

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", q.Meta.Archetype.Label(), st.CurrentTier.Label()))

	right := fmt.Sprintf("Q %d  %s %d",
		st.QuestionsAnswered+1,
		lipgloss.NewStyle().Foreground(theme.Accent).Render("streak"),
		st.Streak)
	if s.deps.QuestionTimeout > 0 && s.result == nil {
		timerStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
		if s.remaining <= 5*tickInterval {
			timerStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		}
		right += "  " + timerStyle.Render(fmt.Sprintf("⏱ %ds", int(s.remaining.Seconds())))
	}
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	line := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + infoRight
	}
	return line
}

// renderFeedback shows the result of the last answer, the rule detail and
// any tutor explanation.
func (s *TrainerScreen) renderFeedback(width, cw int) string {
	res := s.result
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Width(cw).Align(lipgloss.Center).Render(text)) + "\n"
	}

	var b strings.Builder
	if res.Correct {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success).Bold(true), res.Feedback.Headline))
	} else {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error).Bold(true), res.Feedback.Headline))
		if res.Feedback.Detail != "" {
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), problemgen.StripMarkup(res.Feedback.Detail)))
		}
	}

	switch {
	case s.tutorPending:
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true), "Asking the tutor..."))
	case s.explanation != nil:
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Chalk), s.explanation.Explanation))
		if s.explanation.Tip != "" {
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent), "Tip: "+s.explanation.Tip))
		}
		if s.explanation.Example != "" {
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true), "e.g. "+s.explanation.Example))
		}
	}

	b.WriteString("\n")
	next := "Press Enter for the next question"
	if res.Completed {
		next = "Out of lives! Press Enter to see your results"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), next))
	return b.String()
}

func renderQuitConfirm(width int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "End session early?"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Your score so far will be saved."))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing your session...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
