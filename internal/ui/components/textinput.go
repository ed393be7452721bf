package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with arcade styling.
type TextInput struct {
	Model textinput.Model
	Label string
	Error string
}

// NewTextInput creates a focused text input.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label}
}

// Init returns the cursor blink command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		t.Error = ""
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	var b strings.Builder
	if t.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Chalk).Bold(true).Render(t.Label))
		b.WriteString("\n")
	}
	b.WriteString(t.Model.View())
	if t.Error != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("✗ " + t.Error))
	}
	return b.String()
}

func (t TextInput) Value() string {
	return t.Model.Value()
}

// Fields splits the value on commas, dropping blank entries.
func (t TextInput) Fields() []string {
	var out []string
	for _, f := range strings.Split(t.Model.Value(), ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
