package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/ui/theme"
)

// ContentWidth is the width home and summary content is laid out at:
// the frame minus a margin, capped so lines stay readable on wide terminals.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

// Card draws body in a rounded box of the given outer width. A non-empty
// title is printed in bold above the body.
func Card(title, body string, width int) string {
	if title != "" {
		body = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title) + "\n" + body
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	return style.Width(width - style.GetHorizontalBorderSize()).Render(body)
}
