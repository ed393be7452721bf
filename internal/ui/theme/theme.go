package theme

import "charm.land/lipgloss/v2"

// Palette. Indigo is the brand colour; green and red are reserved for
// right and wrong answers.
var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#10B981")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
	Highlight = lipgloss.Color("#FACC15") // selection cursor
	Chalk     = lipgloss.Color("#22D3EE") // tiers and blanks
)

var (
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Emphasis marks the flagged word in error-correction prompts.
	Emphasis = lipgloss.NewStyle().Foreground(Accent).Bold(true).Underline(true)

	// Blank marks the gap in a fill-in prompt.
	Blank = lipgloss.NewStyle().Foreground(Chalk).Bold(true)
)
