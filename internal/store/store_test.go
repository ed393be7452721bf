package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), opts...)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Topic: "to-be", Action: ActionEnd, Score: 4,
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	best, err := s.EventRepo().BestScore(ctx, "to-be")
	require.NoError(t, err)
	assert.Equal(t, 4, best)
}

func TestSequenceIsSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), n)
	}

	repo := s.EventRepo()
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s", Topic: "to-be", Archetype: "fill-in", Tier: "easy", Prompt: "p", CorrectAnswer: "is"}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "explain", Success: true}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(5), events[0].Sequence)
}

func TestSessionHistory(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := openTestStore(t, WithClock(fixedClock(start)))
	repo := s.EventRepo()
	ctx := context.Background()

	for i, score := range []int{3, 7, 5} {
		id := []string{"a", "b", "c"}[i]
		require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: id, Topic: "to-be", Action: ActionStart}))
		require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
			SessionID: id, Topic: "to-be", Action: ActionEnd,
			QuestionsAnswered: 10, CorrectAnswers: score, Score: score, MaxStreak: 2, DurationSecs: 60,
		}))
	}
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "d", Topic: "have-got", Action: ActionEnd, Score: 9}))

	sessions, err := repo.RecentSessions(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "d", sessions[0].SessionID)
	assert.Equal(t, "c", sessions[1].SessionID)
	assert.Equal(t, 5, sessions[1].Score)
	assert.True(t, sessions[1].Timestamp.After(start))

	all, err := repo.RecentSessions(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, all, 4, "start events are not listed")

	best, err := repo.BestScore(ctx, "to-be")
	require.NoError(t, err)
	assert.Equal(t, 7, best)

	best, err = repo.BestScore(ctx, "present-simple")
	require.NoError(t, err)
	assert.Zero(t, best)
}

func TestSessionEventRejectsUnknownAction(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendSessionEvent(context.Background(), SessionEventData{SessionID: "x", Topic: "to-be", Action: "pause"})
	assert.Error(t, err)
}

func TestAnswerStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "a", Topic: "to-be", Archetype: "fill-in", Correct: true, TimeMs: 1000},
		{SessionID: "a", Topic: "to-be", Archetype: "fill-in", Correct: false, TimeMs: 3000},
		{SessionID: "b", Topic: "to-be", Archetype: "recognition", Correct: true, TimeMs: 2000},
		{SessionID: "c", Topic: "have-got", Archetype: "fill-in", Correct: false, TimedOut: true},
	}
	for _, a := range answers {
		a.Tier = "easy"
		a.Prompt = "prompt"
		a.CorrectAnswer = "is"
		require.NoError(t, repo.AppendAnswerEvent(ctx, a))
	}
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Topic: "to-be", Action: ActionEnd, Score: 1}))

	topics, err := repo.TopicStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TopicStat{
		{Topic: "have-got", Sessions: 1, Attempts: 1, Correct: 0, BestScore: 0},
		{Topic: "to-be", Sessions: 2, Attempts: 3, Correct: 2, BestScore: 1},
	}, topics)

	archetypes, err := repo.ArchetypeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ArchetypeStat{
		{Topic: "have-got", Archetype: "fill-in", Attempts: 1, Correct: 0, AvgTimeMs: 0},
		{Topic: "to-be", Archetype: "fill-in", Attempts: 2, Correct: 1, AvgTimeMs: 2000},
		{Topic: "to-be", Archetype: "recognition", Attempts: 1, Correct: 1, AvgTimeMs: 2000},
	}, archetypes)
}

func TestSessionMistakes(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s1", Topic: "to-be", Archetype: "fill-in", Tier: "easy",
			Prompt: "She ___ a teacher.", CorrectAnswer: "is", ChosenAnswer: "is", Correct: true},
		{SessionID: "s1", Topic: "to-be", Archetype: "fill-in", Tier: "easy",
			Prompt: "They ___ late.", CorrectAnswer: "are", ChosenAnswer: "is"},
		{SessionID: "s2", Topic: "to-be", Archetype: "recognition", Tier: "easy",
			Prompt: "Pick the correct sentence.", CorrectAnswer: "I am here.", ChosenAnswer: "I is here."},
		{SessionID: "s1", Topic: "to-be", Archetype: "context", Tier: "medium",
			Prompt: "Where ___ you from?", CorrectAnswer: "are", TimedOut: true, TimeMs: 15000},
	}
	for _, a := range answers {
		require.NoError(t, repo.AppendAnswerEvent(ctx, a))
	}

	got, err := repo.SessionMistakes(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, answers[1], got[0].AnswerEventData)
	assert.Equal(t, answers[3], got[1].AnswerEventData)
	assert.Less(t, got[0].Sequence, got[1].Sequence)

	none, err := repo.SessionMistakes(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	calls := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "explain", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "{}", ResponseBody: "{}"},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "explain", InputTokens: 300, OutputTokens: 70, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "explain", Success: false, ErrorMessage: "rate limited"},
	}
	for _, c := range calls {
		require.NoError(t, repo.AppendLLMRequest(ctx, c))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "gpt-4o-mini", events[0].Model)
	assert.False(t, events[0].Success)
	assert.Equal(t, "rate limited", events[0].ErrorMessage)

	e, err := repo.GetLLMEvent(ctx, events[2].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "{}", e.RequestBody)
	assert.True(t, e.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Equal(t, []LLMUsageStat{{Purpose: "explain", Calls: 3, InputTokens: 400, OutputTokens: 120, AvgLatencyMs: 200}}, byPurpose)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []LLMModelUsage{
		{Model: "claude-haiku-4-5", Calls: 2, InputTokens: 400, OutputTokens: 120},
		{Model: "gpt-4o-mini", Calls: 1},
	}, byModel)
}

func TestQueryOptsFilters(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := openTestStore(t, WithClock(fixedClock(start)))
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "explain", Success: true}))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 3})
	require.NoError(t, err)
	assert.Len(t, after, 2)

	window, err := repo.QueryLLMEvents(ctx, QueryOpts{From: start.Add(2 * time.Second), To: start.Add(3 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, window, 2)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Topic: "to-be", Action: ActionEnd, Score: 3}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "a", Topic: "to-be", Archetype: "fill-in", Tier: "easy", Prompt: "p", CorrectAnswer: "is"}))
	require.NoError(t, s.Reset(ctx))

	sessions, err := repo.RecentSessions(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, sessions)

	stats, err := repo.TopicStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)

	n, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "sequence survives reset")
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "g.db")
		t.Setenv("GRAMMIZ_DB", want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Join(dir, "custom"))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("GRAMMIZ_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "grammiz", "grammiz.db"), got)
	})
}
