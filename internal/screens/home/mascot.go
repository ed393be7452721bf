package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammiz/internal/ui/theme"
)

// MascotVariant is the mood of the home screen mascot.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default indigo
	MascotCelebrating                      // Gold, star eyes: a strong best score
	MascotSleepy                           // Dim, closed eyes: nothing played yet
)

// celebrateScore is the best score from which the mascot celebrates.
const celebrateScore = 10

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ A a │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ A a │
└─╥═╥─┘
  ╚═╝`

const mascotSleepy = `┌─────┐
│ - - │ z
│  ▽  │
│ A a │
└─────┘`

// mascotFor picks the variant for the learner's record.
func mascotFor(sessions, bestScore int) MascotVariant {
	switch {
	case sessions == 0:
		return MascotSleepy
	case bestScore >= celebrateScore:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

type mascotArt struct {
	art string
	fg  color.Color
}

var mascots = map[MascotVariant]mascotArt{
	MascotIdle:        {mascotIdle, theme.Primary},
	MascotCelebrating: {mascotCelebrating, theme.Highlight},
	MascotSleepy:      {mascotSleepy, theme.TextDim},
}

// RenderMascot draws the art for v in its colour. Unknown variants get the
// idle face.
func RenderMascot(v MascotVariant) string {
	m, ok := mascots[v]
	if !ok {
		m = mascots[MascotIdle]
	}
	return lipgloss.NewStyle().Foreground(m.fg).Render(m.art)
}
