// Package recorder persists session lifecycle and answer events produced
// by a session.Controller.
package recorder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
)

// Recorder writes session events to an EventRepo. A Recorder with a nil
// repo records nothing.
type Recorder struct {
	repo   store.EventRepo
	logger *zap.Logger
}

// New returns a Recorder. repo may be nil.
func New(repo store.EventRepo, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger.Named("recorder")}
}

// SessionStarted records the start of a session.
func (r *Recorder) SessionStarted(ctx context.Context, state *session.SessionState) error {
	if r.repo == nil || state == nil {
		return nil
	}
	err := r.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: state.SessionID,
		Topic:     string(state.Topic),
		Action:    store.ActionStart,
	})
	if err != nil {
		r.logger.Warn("record session start failed", zap.String("session", state.SessionID), zap.Error(err))
		return fmt.Errorf("record session start: %w", err)
	}
	return nil
}

// Answered records a graded answer.
func (r *Recorder) Answered(ctx context.Context, state *session.SessionState, res *session.AnswerResult) error {
	if r.repo == nil || state == nil || res == nil || res.Question == nil {
		return nil
	}
	q := res.Question
	chosen := ""
	if res.Chosen >= 0 && res.Chosen < len(q.Options) {
		chosen = problemgen.StripMarkup(q.Options[res.Chosen])
	}
	err := r.repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:     state.SessionID,
		Topic:         string(q.Meta.Topic),
		Archetype:     string(q.Meta.Archetype),
		Tier:          q.Meta.Tier.String(),
		Prompt:        problemgen.StripMarkup(q.Prompt),
		CorrectAnswer: problemgen.StripMarkup(q.Answer()),
		ChosenAnswer:  chosen,
		Correct:       res.Correct,
		TimedOut:      res.TimedOut,
		TimeMs:        res.ResponseTime.Milliseconds(),
	})
	if err != nil {
		r.logger.Warn("record answer failed", zap.String("session", state.SessionID), zap.Error(err))
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// SessionEnded records the end of a session with its final counts.
func (r *Recorder) SessionEnded(ctx context.Context, sum *session.SessionSummary) error {
	if r.repo == nil || sum == nil {
		return nil
	}
	err := r.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:         sum.SessionID,
		Topic:             string(sum.Topic),
		Action:            store.ActionEnd,
		QuestionsAnswered: sum.QuestionsAnswered,
		CorrectAnswers:    sum.CorrectAnswers,
		Score:             sum.Score,
		MaxStreak:         sum.MaxStreak,
		DurationSecs:      int(sum.Duration.Seconds()),
	})
	if err != nil {
		r.logger.Warn("record session end failed", zap.String("session", sum.SessionID), zap.Error(err))
		return fmt.Errorf("record session end: %w", err)
	}
	r.logger.Info("session recorded",
		zap.String("session", sum.SessionID),
		zap.String("topic", string(sum.Topic)),
		zap.Int("score", sum.Score),
		zap.Int("accuracy", sum.Accuracy))
	return nil
}
