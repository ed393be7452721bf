// Package session runs a trainer session: it serves questions for one
// topic, grades answers, tracks score, streak and lives, and ends the run
// when the lives are gone.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/grammiz/internal/difficulty"
	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
)

// DefaultMaxLives is the number of wrong answers a session survives.
const DefaultMaxLives = 3

var (
	// ErrInvalidAnswer is returned for an option index outside the
	// current question's options. State is left unchanged.
	ErrInvalidAnswer = errors.New("invalid answer index")

	// ErrWrongPhase is returned when an operation is not allowed in the
	// current phase. State is left unchanged.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
)

// Controller drives one session through idle, playing, answering,
// feedback and completed. It is not safe for concurrent use; the host
// calls it from a single goroutine.
type Controller struct {
	registry *problemgen.Registry
	topic    *grammar.Topic
	selector *difficulty.Selector
	src      rng.Source
	now      func() time.Time
	logger   *zap.Logger
	messages []string
	maxLives int

	state *SessionState
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxLives sets the number of lives per run.
func WithMaxLives(n int) Option {
	return func(c *Controller) { c.maxLives = n }
}

// WithSelector replaces the default difficulty selector.
func WithSelector(s *difficulty.Selector) Option {
	return func(c *Controller) { c.selector = s }
}

// WithSource sets the randomness source used for archetype choice,
// generation and feedback messages.
func WithSource(src rng.Source) Option {
	return func(c *Controller) { c.src = src }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMessages replaces the motivational messages.
func WithMessages(msgs []string) Option {
	return func(c *Controller) { c.messages = msgs }
}

// New creates an idle Controller for topic. An unknown topic or an invalid
// option is a configuration error.
func New(registry *problemgen.Registry, topic grammar.TopicID, opts ...Option) (*Controller, error) {
	t, err := registry.Topic(topic)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		registry: registry,
		topic:    t,
		now:      time.Now,
		logger:   zap.NewNop(),
		messages: DefaultMessages,
		maxLives: DefaultMaxLives,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxLives <= 0 {
		return nil, fmt.Errorf("max lives must be > 0, got %d", c.maxLives)
	}
	if len(c.messages) == 0 {
		return nil, errors.New("no feedback messages")
	}
	if c.src == nil {
		c.src = rng.NewTimeSeeded()
	}
	if c.selector == nil {
		sel, err := difficulty.NewSelector()
		if err != nil {
			return nil, err
		}
		c.selector = sel
	}
	c.state = &SessionState{Topic: t.ID, Phase: PhaseIdle, Lives: c.maxLives}
	return c, nil
}

// Topic returns the topic this controller serves.
func (c *Controller) Topic() *grammar.Topic {
	return c.topic
}

// MaxLives returns the number of lives a run starts with.
func (c *Controller) MaxLives() int {
	return c.maxLives
}

// State returns the live session state. Callers must treat it as read-only.
func (c *Controller) State() *SessionState {
	return c.state
}

// Selector returns the difficulty selector, e.g. to change the override.
func (c *Controller) Selector() *difficulty.Selector {
	return c.selector
}

// Start begins a new run from idle or completed and serves the first question.
func (c *Controller) Start() (*problemgen.Question, error) {
	if c.state.Phase != PhaseIdle && c.state.Phase != PhaseCompleted {
		return nil, fmt.Errorf("%w: start in %s", ErrWrongPhase, c.state.Phase)
	}
	c.state = &SessionState{
		SessionID:    uuid.NewString(),
		Topic:        c.topic.ID,
		Phase:        PhasePlaying,
		Lives:        c.maxLives,
		PerArchetype: make(map[problemgen.Archetype]*ArchetypeResult),
		StartTime:    c.now(),
	}
	c.logger.Debug("session started",
		zap.String("session_id", c.state.SessionID),
		zap.String("topic", string(c.topic.ID)),
		zap.Int("lives", c.maxLives),
	)
	return c.serve()
}

// Next leaves feedback and serves the next question.
func (c *Controller) Next() (*problemgen.Question, error) {
	if c.state.Phase != PhaseFeedback {
		return nil, fmt.Errorf("%w: next in %s", ErrWrongPhase, c.state.Phase)
	}
	c.state.Phase = PhasePlaying
	return c.serve()
}

func (c *Controller) serve() (*problemgen.Question, error) {
	tier := c.selector.Tier(c.state.QuestionsAnswered, c.state.CorrectAnswers)
	archetype := c.selector.Pick(tier, c.src)
	gen, err := c.registry.Generator(c.topic.ID, archetype)
	if err != nil {
		return nil, err
	}
	q := gen.Generate(tier, c.src)

	c.state.CurrentQuestion = q
	c.state.CurrentTier = tier
	c.state.QuestionStartTime = c.now()
	c.state.Phase = PhaseAnswering

	c.logger.Debug("question served",
		zap.String("session_id", c.state.SessionID),
		zap.String("archetype", string(archetype)),
		zap.Stringer("tier", tier),
	)
	return q, nil
}

// Submit grades option index. An index outside the options returns
// ErrInvalidAnswer without changing state.
func (c *Controller) Submit(index int) (*AnswerResult, error) {
	if c.state.Phase != PhaseAnswering {
		return nil, fmt.Errorf("%w: submit in %s", ErrWrongPhase, c.state.Phase)
	}
	q := c.state.CurrentQuestion
	if index < 0 || index >= len(q.Options) {
		return nil, fmt.Errorf("%w: %d (have %d options)", ErrInvalidAnswer, index, len(q.Options))
	}
	return c.grade(index, false), nil
}

// Timeout grades the current question as wrong because the timer expired.
func (c *Controller) Timeout() (*AnswerResult, error) {
	if c.state.Phase != PhaseAnswering {
		return nil, fmt.Errorf("%w: timeout in %s", ErrWrongPhase, c.state.Phase)
	}
	return c.grade(-1, true), nil
}

func (c *Controller) grade(index int, timedOut bool) *AnswerResult {
	st := c.state
	q := st.CurrentQuestion
	correct := !timedOut && q.IsCorrect(index)

	st.QuestionsAnswered++
	ar := st.PerArchetype[q.Meta.Archetype]
	if ar == nil {
		ar = &ArchetypeResult{Archetype: q.Meta.Archetype}
		st.PerArchetype[q.Meta.Archetype] = ar
	}
	ar.Attempted++

	var fb Feedback
	if correct {
		st.CorrectAnswers++
		ar.Correct++
		st.Score++
		st.Streak++
		st.MaxStreak = max(st.MaxStreak, st.Streak)
		fb = correctFeedback(c.messages, st.Streak, c.src)
	} else {
		st.Streak = 0
		st.Lives--
		fb = wrongFeedback(q, c.topic, timedOut)
	}

	now := c.now()
	result := &AnswerResult{
		Question:     q,
		Chosen:       index,
		Correct:      correct,
		TimedOut:     timedOut,
		Feedback:     fb,
		Score:        st.Score,
		Streak:       st.Streak,
		Lives:        st.Lives,
		ResponseTime: now.Sub(st.QuestionStartTime),
	}

	if st.Lives <= 0 {
		st.Lives = 0
		st.Phase = PhaseCompleted
		st.EndTime = now
		result.Completed = true
	} else {
		st.Phase = PhaseFeedback
	}
	st.LastResult = result

	c.logger.Debug("answer graded",
		zap.String("session_id", st.SessionID),
		zap.Bool("correct", correct),
		zap.Bool("timed_out", timedOut),
		zap.Int("lives", st.Lives),
		zap.Int("streak", st.Streak),
		zap.Stringer("phase", st.Phase),
	)
	return result
}

// Stop ends a running session early. Stopping an idle or completed
// session is a no-op.
func (c *Controller) Stop() {
	if c.state.Phase == PhaseIdle || c.state.Phase == PhaseCompleted {
		return
	}
	c.state.Phase = PhaseCompleted
	c.state.EndTime = c.now()
	c.logger.Debug("session stopped", zap.String("session_id", c.state.SessionID))
}

// Summary returns the session statistics so far.
func (c *Controller) Summary() *SessionSummary {
	return BuildSummary(c.state, c.now())
}
