package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

// optionLabels label up to four options. Questions never carry more.
var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice is a multiple-choice selector for a generated question.
// Options can be picked with the arrow keys and enter, or directly with
// the number keys 1-4.
type MultiChoice struct {
	Instruction  string
	Prompt       string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a selector for q.
func NewMultiChoice(q *problemgen.Question) MultiChoice {
	return MultiChoice{
		Instruction:  q.Instruction,
		Prompt:       q.Prompt,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
		ChosenIndex:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	case "1", "2", "3", "4":
		i := int(key[0] - '1')
		if i < len(m.Options) {
			m.Selected = i
			m.Submitted = true
			m.ChosenIndex = i
		}
	}

	return m, nil
}

// Reveal marks the question as answered with the given choice, which may
// be -1 when nothing was chosen.
func (m MultiChoice) Reveal(chosen int) MultiChoice {
	m.Submitted = true
	m.ChosenIndex = chosen
	return m
}

// View renders the instruction, the prompt and the labelled options.
func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Instruction != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(m.Instruction))
		b.WriteString("\n\n")
	}
	b.WriteString(RenderPrompt(m.Prompt, lipgloss.NewStyle().Foreground(theme.Text).Bold(true)))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		if i >= len(optionLabels) {
			break
		}
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, optionLabels[i], problemgen.StripMarkup(opt))

		var style lipgloss.Style
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case m.Submitted && i == m.ChosenIndex:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line) + "\n")
	}

	return b.String()
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}

// RenderPrompt renders a question prompt with base style, highlighting
// blanks and the emphasized span of error-correction prompts.
func RenderPrompt(prompt string, base lipgloss.Style) string {
	var b strings.Builder
	parts := strings.Split(prompt, problemgen.EmphasisMarker)
	for i, part := range parts {
		// Odd segments sit between a pair of markers.
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString(theme.Emphasis.Render(part))
			continue
		}
		if i%2 == 1 {
			part = problemgen.EmphasisMarker + part
		}
		blanks := strings.Split(part, grammar.BlankMarker)
		for j, seg := range blanks {
			if j > 0 {
				b.WriteString(theme.Blank.Render(grammar.BlankMarker))
			}
			if seg != "" {
				b.WriteString(base.Render(seg))
			}
		}
	}
	return b.String()
}
