package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/ui/theme"
)

// Smallest terminal the quiz card and footer fit in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats are the live session counters shown on the right of the
// header. Nothing is shown unless Show is set.
type HeaderStats struct {
	Tier     string
	Streak   int
	Score    int
	Lives    int
	MaxLives int
	Show     bool
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a larger terminal, centered in the space available.
func RenderMinSizeMessage(width, height int) string {
	msg := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("This window is too small"),
		"",
		theme.Body.Render(fmt.Sprintf("Grammiz needs %d×%d, this window is %d×%d.", MinWidth, MinHeight, width, height)),
		theme.Hint.Render("Resize the terminal to continue."),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

var (
	barStyle = lipgloss.NewStyle().
			Background(theme.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border)
	brandStyle  = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	tierStyle   = lipgloss.NewStyle().Foreground(theme.Chalk)
	streakStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	heartStyle  = lipgloss.NewStyle().Foreground(theme.Error)
	lostStyle   = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// RenderHeader renders the top bar: brand on the left, the screen title in
// the middle and, during a session, its counters on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	inner := max(width-barStyle.GetHorizontalFrameSize(), 0)
	third := inner / 3

	left := lipgloss.NewStyle().Width(third).Render(brandStyle.Render(" Grammiz"))
	center := lipgloss.NewStyle().Width(third).Align(lipgloss.Center).Render(theme.Body.Render(title))
	right := lipgloss.NewStyle().Width(inner - 2*third).Align(lipgloss.Right).Render(renderStats(stats))

	return barStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right))
}

func renderStats(s HeaderStats) string {
	if !s.Show {
		return ""
	}
	var parts []string
	if s.Tier != "" {
		parts = append(parts, tierStyle.Render(s.Tier))
	}
	if s.Streak > 1 {
		parts = append(parts, streakStyle.Render(fmt.Sprintf("streak %d", s.Streak)))
	}
	parts = append(parts, streakStyle.Render(fmt.Sprintf("★ %d", s.Score)), renderLives(s.Lives, s.MaxLives))
	return strings.Join(parts, "  ") + " "
}

// renderLives shows lost lives as empty hearts when the maximum is known.
func renderLives(lives, maxLives int) string {
	if maxLives <= 0 {
		return heartStyle.Render(Hearts(lives))
	}
	lives = min(max(lives, 0), maxLives)
	return heartStyle.Render(strings.Repeat("♥", lives)) + lostStyle.Render(strings.Repeat("♡", maxLives-lives))
}

// RenderFooter renders the key hints, separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Description))
	}
	return barStyle.Width(width).Render(" " + strings.Join(parts, descStyle.Render("  ·  ")))
}

// RenderFrame stacks header, body and footer. The body is rendered for
// whatever height the header and footer leave over.
func RenderFrame(header, footer string, width, height int, body func(width, height int) string) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(body(width, bodyHeight))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// Hearts renders one heart per remaining life, or a single empty heart
// once none are left.
func Hearts(lives int) string {
	if lives <= 0 {
		return "♡"
	}
	return strings.Repeat("♥", lives)
}
