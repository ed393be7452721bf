package layout

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestHearts(t *testing.T) {
	assert.Equal(t, "♥♥♥", Hearts(3))
	assert.Equal(t, "♡", Hearts(0))
}

func TestRenderLives(t *testing.T) {
	assert.Equal(t, "♥♡♡", ansi.Strip(renderLives(1, 3)))
	assert.Equal(t, "♡♡♡", ansi.Strip(renderLives(0, 3)))
	assert.Equal(t, "♥♥", ansi.Strip(renderLives(2, 0)))
}

func TestRenderHeader_ShowsStats(t *testing.T) {
	h := ansi.Strip(RenderHeader("To be", HeaderStats{Tier: "Medium", Streak: 4, Score: 7, Lives: 2, MaxLives: 3, Show: true}, 100))
	assert.Contains(t, h, "Grammiz")
	assert.Contains(t, h, "To be")
	assert.Contains(t, h, "Medium")
	assert.Contains(t, h, "streak 4")
	assert.Contains(t, h, "★ 7")
	assert.Contains(t, h, "♥♥♡")
}

func TestRenderHeader_HidesStats(t *testing.T) {
	h := ansi.Strip(RenderHeader("Home", HeaderStats{Score: 3}, 90))
	assert.NotContains(t, h, "★")
}

func TestRenderHeader_StreakOfOneHidden(t *testing.T) {
	h := ansi.Strip(RenderHeader("To be", HeaderStats{Streak: 1, Show: true}, 90))
	assert.NotContains(t, h, "streak")
}

func TestRenderFrame_BodyGetsRemainingHeight(t *testing.T) {
	header := RenderHeader("Home", HeaderStats{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)

	var gotW, gotH int
	frame := RenderFrame(header, footer, 80, 30, func(w, h int) string {
		gotW, gotH = w, h
		return "body"
	})
	assert.Equal(t, 80, gotW)
	assert.Equal(t, 30-strings.Count(header, "\n")-1-strings.Count(footer, "\n")-1, gotH)
	assert.Contains(t, ansi.Strip(frame), "Esc Back")
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 30))
	assert.True(t, IsTooSmall(100, 23))
	assert.False(t, IsTooSmall(80, 24))
}

func TestRenderMinSizeMessage(t *testing.T) {
	msg := ansi.Strip(RenderMinSizeMessage(60, 20))
	assert.Contains(t, msg, "80×24")
	assert.Contains(t, msg, "60×20")
}
