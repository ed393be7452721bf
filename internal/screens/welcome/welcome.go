package welcome

import (
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/router"
	"github.com/abhisek/grammiz/internal/screen"
	"github.com/abhisek/grammiz/internal/ui/theme"
)

const (
	tickInterval = 60 * time.Millisecond
	holdTicks    = 10 // the mistake stays underlined this long
	fixTicks     = 25 // then the correction stays on screen this long
)

// correction is a sentence the splash types out with one wrong verb and
// then corrects. The sentence reads Before + Wrong + After.
type correction struct {
	Before, Wrong, After string
	Fix                  string
}

func (c correction) text() string { return c.Before + c.Wrong + c.After }

func (c correction) length() int { return utf8.RuneCountInString(c.text()) }

func (c correction) span() int { return c.length() + holdTicks + fixTicks }

// One mistake per built-in topic.
var corrections = []correction{
	{Before: "She ", Wrong: "are", After: " from Spain.", Fix: "is"},
	{Before: "My brother ", Wrong: "have", After: " got a new bike.", Fix: "has"},
	{Before: "They ", Wrong: "plays", After: " football on Sundays.", Fix: "play"},
}

type stage int

const (
	stageTyping stage = iota
	stageMistake
	stageFixed
)

type tickMsg time.Time

// WelcomeScreen types out common mistakes and corrects them until a key is
// pressed, then hands over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	ticks        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.ticks++
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

// current reports the correction on screen, its stage and, while typing,
// how many runes are visible. The corrections loop.
func (w *WelcomeScreen) current() (correction, stage, int) {
	cycle := 0
	for _, c := range corrections {
		cycle += c.span()
	}
	t := w.ticks % cycle
	for _, c := range corrections {
		if t >= c.span() {
			t -= c.span()
			continue
		}
		switch {
		case t < c.length():
			return c, stageTyping, t
		case t < c.length()+holdTicks:
			return c, stageMistake, c.length()
		default:
			return c, stageFixed, c.length()
		}
	}
	return corrections[0], stageTyping, 0
}

// introduced is true once the first sentence has been typed in full.
func (w *WelcomeScreen) introduced() bool {
	return w.ticks >= corrections[0].length()
}

var (
	mistakeStyle = lipgloss.NewStyle().Foreground(theme.Error).Underline(true)
	struckStyle  = lipgloss.NewStyle().Foreground(theme.TextDim).Strikethrough(true)
	fixStyle     = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(theme.Accent)
)

func renderCorrection(c correction, st stage, typed int) string {
	switch st {
	case stageTyping:
		runes := []rune(c.text())
		return theme.Body.Render(string(runes[:typed])) + cursorStyle.Render("▌")
	case stageMistake:
		return theme.Body.Render(c.Before) + mistakeStyle.Render(c.Wrong) + theme.Body.Render(c.After)
	default:
		return theme.Body.Render(c.Before) + struckStyle.Render(c.Wrong) + " " +
			fixStyle.Render(c.Fix) + theme.Body.Render(c.After)
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.introduced() {
		sections = append(sections,
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Grammar practice, one question at a time!"),
			"",
		)
	}

	c, st, typed := w.current()
	sections = append(sections, renderCorrection(c, st, typed))

	if w.introduced() {
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
