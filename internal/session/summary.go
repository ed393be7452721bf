package session

import (
	"math"
	"time"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
)

// SessionSummary holds the final statistics of a session.
type SessionSummary struct {
	SessionID         string
	Topic             grammar.TopicID
	Duration          time.Duration
	QuestionsAnswered int
	CorrectAnswers    int
	// Accuracy is the rounded percentage of correct answers (0-100).
	Accuracy  int
	Score     int
	MaxStreak int
	LivesLeft int
	Results   []ArchetypeResult
}

// AccuracyPercent returns round(100*correct/answered), or 0 when nothing
// was answered.
func AccuracyPercent(correct, answered int) int {
	if answered <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(answered)))
}

// BuildSummary creates a SessionSummary from the session state. now is
// used as the end time when the session has not completed.
func BuildSummary(state *SessionState, now time.Time) *SessionSummary {
	end := state.EndTime
	if end.IsZero() {
		end = now
	}
	var duration time.Duration
	if !state.StartTime.IsZero() {
		duration = end.Sub(state.StartTime)
	}

	var results []ArchetypeResult
	for _, a := range problemgen.AllArchetypes() {
		if r, ok := state.PerArchetype[a]; ok {
			results = append(results, *r)
		}
	}

	return &SessionSummary{
		SessionID:         state.SessionID,
		Topic:             state.Topic,
		Duration:          duration,
		QuestionsAnswered: state.QuestionsAnswered,
		CorrectAnswers:    state.CorrectAnswers,
		Accuracy:          AccuracyPercent(state.CorrectAnswers, state.QuestionsAnswered),
		Score:             state.Score,
		MaxStreak:         state.MaxStreak,
		LivesLeft:         state.Lives,
		Results:           results,
	}
}
