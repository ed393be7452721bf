package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "rec.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testController(t *testing.T) *session.Controller {
	t.Helper()
	topics, err := grammar.Builtin()
	require.NoError(t, err)
	reg, err := problemgen.NewRegistry(topics)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(2 * time.Second)
		return now
	}
	c, err := session.New(reg, "have-got",
		session.WithSource(rng.New(3)),
		session.WithClock(clock),
		session.WithMaxLives(1))
	require.NoError(t, err)
	return c
}

func TestRecordsFullSession(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	rec := New(s.EventRepo(), zaptest.NewLogger(t))
	c := testController(t)

	q, err := c.Start()
	require.NoError(t, err)
	require.NoError(t, rec.SessionStarted(ctx, c.State()))

	res, err := c.Submit(q.CorrectIndex)
	require.NoError(t, err)
	require.NoError(t, rec.Answered(ctx, c.State(), res))

	q, err = c.Next()
	require.NoError(t, err)
	wrong := (q.CorrectIndex + 1) % len(q.Options)
	res, err = c.Submit(wrong)
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.NoError(t, rec.Answered(ctx, c.State(), res))

	require.NoError(t, rec.SessionEnded(ctx, c.Summary()))

	sessions, err := s.EventRepo().RecentSessions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "have-got", sessions[0].Topic)
	assert.Equal(t, 2, sessions[0].QuestionsAnswered)
	assert.Equal(t, 1, sessions[0].CorrectAnswers)
	assert.Equal(t, 1, sessions[0].Score)

	stats, err := s.EventRepo().TopicStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Attempts)
	assert.Equal(t, 1, stats[0].Correct)
	assert.Equal(t, 1, stats[0].BestScore)
}

func TestAnsweredStripsMarkup(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	rec := New(s.EventRepo(), nil)

	state := &session.SessionState{SessionID: "abc", Topic: "to-be"}
	res := &session.AnswerResult{
		Question: &problemgen.Question{
			Prompt:       "He **are** happy.",
			Options:      []string{"He is happy.", "He am happy."},
			CorrectIndex: 0,
			Meta: problemgen.Metadata{
				Topic:     "to-be",
				Archetype: problemgen.ArchetypeErrorCorrection,
				Tier:      grammar.TierEasy,
			},
		},
		Chosen:       -1,
		TimedOut:     true,
		ResponseTime: 1500 * time.Millisecond,
	}
	require.NoError(t, rec.Answered(ctx, state, res))

	stats, err := s.EventRepo().ArchetypeStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "error-correction", stats[0].Archetype)
	assert.Equal(t, 0, stats[0].Correct)
	assert.Equal(t, int64(1500), stats[0].AvgTimeMs)
}

func TestNilRepoIsNoop(t *testing.T) {
	rec := New(nil, nil)
	ctx := context.Background()
	assert.NoError(t, rec.SessionStarted(ctx, &session.SessionState{}))
	assert.NoError(t, rec.Answered(ctx, &session.SessionState{}, &session.AnswerResult{}))
	assert.NoError(t, rec.SessionEnded(ctx, &session.SessionSummary{}))
}
