package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/grammiz/internal/problemgen"
)

func testQuestion() *problemgen.Question {
	return &problemgen.Question{
		Instruction:  "Choose the correct form.",
		Prompt:       "She ___ happy.",
		Options:      []string{"am", "is", "are"},
		CorrectIndex: 1,
	}
}

func TestMultiChoice_ArrowsAndEnter(t *testing.T) {
	m := NewMultiChoice(testQuestion())
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.True(t, m.Submitted)
	assert.Equal(t, 1, m.ChosenIndex)
	assert.True(t, m.IsCorrect())
}

func TestMultiChoice_NumberKey(t *testing.T) {
	m := NewMultiChoice(testQuestion())
	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})

	assert.True(t, m.Submitted)
	assert.Equal(t, 2, m.ChosenIndex)
	assert.False(t, m.IsCorrect())
}

func TestMultiChoice_NumberKeyOutOfRange(t *testing.T) {
	m := NewMultiChoice(testQuestion())
	m, _ = m.Update(tea.KeyPressMsg{Code: '4', Text: "4"})

	assert.False(t, m.Submitted)
	assert.Equal(t, -1, m.ChosenIndex)
}

func TestMultiChoice_IgnoresKeysAfterSubmit(t *testing.T) {
	m := NewMultiChoice(testQuestion()).Reveal(-1)
	m, _ = m.Update(tea.KeyPressMsg{Code: '1', Text: "1"})

	assert.Equal(t, -1, m.ChosenIndex)
	assert.False(t, m.IsCorrect())
}

func TestMultiChoice_ViewShowsLabelledOptions(t *testing.T) {
	v := NewMultiChoice(testQuestion()).View()
	assert.Contains(t, v, "Choose the correct form.")
	assert.Contains(t, v, "A)  am")
	assert.Contains(t, v, "B)  is")
	assert.Contains(t, v, "C)  are")
}

func TestRenderPrompt_StripsEmphasisMarkers(t *testing.T) {
	out := RenderPrompt("He **are** happy.", lipgloss.NewStyle())
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "are")
}

func TestRenderPrompt_UnpairedMarkerKept(t *testing.T) {
	out := RenderPrompt("a ** b", lipgloss.NewStyle())
	assert.Contains(t, out, "**")
}
