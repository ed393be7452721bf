package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/screen"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

const defaultMessage = "This feature is not available right now."

// PlaceholderScreen shows a short notice in place of a screen that cannot
// run, e.g. history without a database.
type PlaceholderScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a new PlaceholderScreen. An empty message shows a generic
// notice.
func New(title, message string) *PlaceholderScreen {
	if message == "" {
		message = defaultMessage
	}
	return &PlaceholderScreen{title: title, message: message}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render("╌╌ " + p.title + " ╌╌\n\n" + p.message + "\n\nPress Esc to go back.")
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
