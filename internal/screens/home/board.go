package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/screens/welcome"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
	"github.com/abhisek/grammiz/internal/ui/components"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

// boardRow is one line of the home board. Stat is nil for rows that are
// not topics, and for topics never played.
type boardRow struct {
	Label string
	Topic bool
	Stat  *store.TopicStat
}

const meterCells = 10

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	rowStyle     = lipgloss.NewStyle().Foreground(theme.Text)
	selectStyle  = lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(theme.TextDim)
	bestStyle    = lipgloss.NewStyle().Foreground(theme.Accent)
	meterStyle   = lipgloss.NewStyle().Foreground(theme.Secondary)
	summaryStyle = lipgloss.NewStyle().Foreground(theme.Chalk)
)

// renderTitle returns the banner, or its compact form when space is short.
func renderTitle(cw int, compact bool) string {
	title := welcome.BannerArt
	if compact || cw < 60 {
		title = welcome.BannerCompact
	}
	return lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
		Width(cw).Align(lipgloss.Center).Render(title)
}

// renderBoard lists the rows with a number, a cursor on the selected row and,
// for played topics, the best score and an accuracy meter.
func renderBoard(rows []boardRow, selected, cw int) string {
	// border plus padding on both sides
	inner := cw - 6
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		cursor := "  "
		label := rowStyle.Render(r.Label)
		if i == selected {
			cursor = cursorStyle.Render("▸ ")
			label = selectStyle.Render(r.Label)
		}
		left := cursor + dimStyle.Render(fmt.Sprintf("%d ", i+1)) + label
		right := rowDetail(r)
		gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
		lines = append(lines, left+strings.Repeat(" ", gap)+right)
	}
	return components.Card("", strings.Join(lines, "\n"), cw)
}

func rowDetail(r boardRow) string {
	switch {
	case !r.Topic:
		return ""
	case r.Stat == nil || r.Stat.Sessions == 0:
		return dimStyle.Render("not played")
	}
	acc := session.AccuracyPercent(r.Stat.Correct, r.Stat.Attempts)
	return bestStyle.Render(fmt.Sprintf("★%-3d", r.Stat.BestScore)) + " " +
		meterStyle.Render(components.Cells(float64(acc)/100, meterCells)) +
		dimStyle.Render(fmt.Sprintf(" %3d%%", acc))
}

// renderSummary is the one-line record across all topics.
func renderSummary(sessions, best, accuracy, cw int) string {
	text := "No sessions yet. Pick a topic to start."
	if sessions > 0 {
		runs := "sessions"
		if sessions == 1 {
			runs = "session"
		}
		text = fmt.Sprintf("%d %s  ·  best ★%d  ·  %d%% correct", sessions, runs, best, accuracy)
	}
	return summaryStyle.Width(cw).Align(lipgloss.Center).Render(text)
}

// renderNote centers a dim line of help text.
func renderNote(text string, cw int) string {
	return dimStyle.Width(cw).Align(lipgloss.Center).Render(text)
}

// renderMascotBox renders the mascot centered in the content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(RenderMascot(variant))
}
