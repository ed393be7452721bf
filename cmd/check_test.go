package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
	"github.com/abhisek/grammiz/internal/store"
)

func TestCheckRegistry_BuiltinsPass(t *testing.T) {
	var out bytes.Buffer
	err := checkRegistry(&out, testRegistry(t), 10, rng.New(5))
	require.NoError(t, err)
	// 3 topics x 5 styles x 4 tiers x 10 questions
	assert.Contains(t, out.String(), "600 questions checked, 0 failed")
}

func TestWritePreview_MarksAnswer(t *testing.T) {
	var out bytes.Buffer
	err := writePreview(&out, testRegistry(t), "have-got",
		[]problemgen.Archetype{problemgen.ArchetypeFillIn}, grammar.TierEasy, 2, rng.New(1))
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Topic: Have got (have-got), tier Easy")
	assert.Equal(t, 2, strings.Count(s, " *"))
}

func TestWritePreview_UnknownTopic(t *testing.T) {
	var out bytes.Buffer
	err := writePreview(&out, testRegistry(t), "nope", problemgen.AllArchetypes(), grammar.TierEasy, 1, rng.New(1))
	assert.Error(t, err)
}

func TestWriteStats(t *testing.T) {
	var out bytes.Buffer
	writeStats(&out, nil, nil)
	assert.Contains(t, out.String(), "No sessions recorded yet.")

	out.Reset()
	writeStats(&out,
		[]store.TopicStat{{Topic: "to-be", Sessions: 2, Attempts: 8, Correct: 6, BestScore: 5}},
		[]store.ArchetypeStat{{Topic: "to-be", Archetype: string(problemgen.ArchetypeFillIn), Attempts: 4, Correct: 3, AvgTimeMs: 1500}})
	s := out.String()
	assert.Contains(t, s, "to-be")
	assert.Contains(t, s, "75%")
	assert.Contains(t, s, problemgen.ArchetypeFillIn.Label())
}
