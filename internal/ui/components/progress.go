package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/ui/theme"
)

// eighths are the partial-cell glyphs, from one eighth to a full cell.
var eighths = []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉", "█"}

// ProgressBar displays a horizontal meter with eighth-cell resolution.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar. Percent is a fraction in [0, 1].
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     min(max(percent, 0), 1),
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Cells returns the meter itself without colors: full blocks, one partial
// block and padding up to cells.
func Cells(fraction float64, cells int) string {
	units := int(min(max(fraction, 0), 1)*float64(cells*8) + 0.5)
	full, part := units/8, units%8
	bar := strings.Repeat("█", full)
	used := full
	if part > 0 {
		bar += eighths[part-1]
		used++
	}
	return bar + strings.Repeat(" ", cells-used)
}

var (
	meterStyle = lipgloss.NewStyle().Foreground(theme.Secondary).Background(theme.Border)
	labelStyle = lipgloss.NewStyle().Foreground(theme.Text)
	pctStyle   = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// View renders the label, the meter and the optional percentage within Width.
func (p ProgressBar) View() string {
	var prefix, suffix string
	if p.Label != "" {
		prefix = labelStyle.Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = pctStyle.Render(fmt.Sprintf(" %3d%%", int(p.Percent*100+0.5)))
	}
	cells := max(p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix), 4)
	return prefix + meterStyle.Render(Cells(p.Percent, cells)) + suffix
}
