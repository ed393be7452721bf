// Package trainer implements the question-and-answer screen.
package trainer

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/grammiz/internal/difficulty"
	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/recorder"
	"github.com/abhisek/grammiz/internal/rng"
	"github.com/abhisek/grammiz/internal/router"
	"github.com/abhisek/grammiz/internal/screen"
	"github.com/abhisek/grammiz/internal/screens/summary"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/store"
	"github.com/abhisek/grammiz/internal/tutor"
	"github.com/abhisek/grammiz/internal/ui/components"
	"github.com/abhisek/grammiz/internal/ui/layout"
)

const (
	tickInterval = time.Second
	pollInterval = 200 * time.Millisecond
)

// Deps are the collaborators a trainer screen needs.
type Deps struct {
	Registry *problemgen.Registry

	// EventRepo persists sessions and answers. Nil disables persistence.
	EventRepo store.EventRepo

	// Tutor explains wrong answers. Nil disables explanations.
	Tutor *tutor.Service

	// Source drives question generation. Nil means time-seeded.
	Source rng.Source

	MaxLives int

	// Tier pins the difficulty when Pinned is set.
	Tier   grammar.Tier
	Pinned bool

	// QuestionTimeout is the per-question countdown. Zero disables it.
	QuestionTimeout time.Duration

	// Subjects restricts questions to these subjects, e.g. "he", "she".
	Subjects []string

	Logger *zap.Logger
}

// TrainerScreen runs one session for a topic.
type TrainerScreen struct {
	deps     Deps
	topicID  grammar.TopicID
	ctrl     *session.Controller
	recorder *recorder.Recorder

	choice      components.MultiChoice
	result      *session.AnswerResult
	quitConfirm bool
	errMsg      string
	prevBest    int

	remaining time.Duration
	timerGen  int

	tutorSeq     int
	tutorPending bool
	explanation  *tutor.Explanation
}

var _ screen.Screen = (*TrainerScreen)(nil)
var _ screen.KeyHintProvider = (*TrainerScreen)(nil)
var _ screen.StatsProvider = (*TrainerScreen)(nil)
var _ screen.EscapeHandler = (*TrainerScreen)(nil)

// New creates a trainer for topic. Construction errors are shown on screen.
func New(deps Deps, topic grammar.TopicID) *TrainerScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &TrainerScreen{
		deps:     deps,
		topicID:  topic,
		recorder: recorder.New(deps.EventRepo, deps.Logger),
	}

	var opts []session.Option
	opts = append(opts, session.WithLogger(deps.Logger))
	if deps.Source != nil {
		opts = append(opts, session.WithSource(deps.Source))
	}
	if deps.MaxLives > 0 {
		opts = append(opts, session.WithMaxLives(deps.MaxLives))
	}
	if deps.Pinned {
		sel, err := difficulty.NewSelector(difficulty.WithOverride(deps.Tier))
		if err != nil {
			s.errMsg = err.Error()
			return s
		}
		opts = append(opts, session.WithSelector(sel))
	}

	if deps.Registry == nil {
		s.errMsg = "no question registry"
		return s
	}
	reg := deps.Registry
	if len(deps.Subjects) > 0 {
		focused, err := reg.Focus(topic, deps.Subjects...)
		if err != nil {
			s.errMsg = "No subjects match " + strings.Join(deps.Subjects, ", ")
			return s
		}
		reg = focused
	}
	ctrl, err := session.New(reg, topic, opts...)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.ctrl = ctrl
	return s
}

func (s *TrainerScreen) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

func (s *TrainerScreen) Title() string {
	if s.ctrl != nil {
		return s.ctrl.Topic().Name
	}
	return "Practice"
}

func (s *TrainerScreen) HandlesEscape() bool {
	return s.errMsg == ""
}

func (s *TrainerScreen) HeaderStats() layout.HeaderStats {
	if s.ctrl == nil {
		return layout.HeaderStats{}
	}
	st := s.ctrl.State()
	stats := layout.HeaderStats{
		Streak:   st.Streak,
		Score:    st.Score,
		Lives:    st.Lives,
		MaxLives: s.ctrl.MaxLives(),
		Show:     true,
	}
	if st.CurrentQuestion != nil {
		stats.Tier = st.CurrentTier.Label()
	}
	return stats
}

func (s *TrainerScreen) KeyHints() []layout.KeyHint {
	if s.ctrl == nil || s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.result != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Choose"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Phase returns the controller phase, or idle before construction succeeded.
func (s *TrainerScreen) Phase() session.SessionPhase {
	if s.ctrl == nil {
		return session.PhaseIdle
	}
	return s.ctrl.State().Phase
}

func (s *TrainerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return s, s.start()

	case timerTickMsg:
		return s, s.handleTick(msg)

	case tutorPollMsg:
		return s, s.handleTutorPoll(msg)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *TrainerScreen) start() tea.Cmd {
	if s.ctrl == nil {
		return nil
	}
	ctx := context.Background()
	if s.deps.EventRepo != nil {
		if best, err := s.deps.EventRepo.BestScore(ctx, string(s.topicID)); err == nil {
			s.prevBest = best
		}
	}
	q, err := s.ctrl.Start()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	_ = s.recorder.SessionStarted(ctx, s.ctrl.State())
	return s.showQuestion(q)
}

// showQuestion resets per-question state and starts the countdown.
func (s *TrainerScreen) showQuestion(q *problemgen.Question) tea.Cmd {
	s.choice = components.NewMultiChoice(q)
	s.result = nil
	s.explanation = nil
	s.tutorPending = false
	s.timerGen++
	if s.deps.QuestionTimeout <= 0 {
		s.remaining = 0
		return nil
	}
	s.remaining = s.deps.QuestionTimeout
	return tickCmd(s.timerGen)
}

func (s *TrainerScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if s.errMsg != "" || s.ctrl == nil {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.quitConfirm = false
			return s.finish()
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return nil
	}

	if key == "esc" {
		s.quitConfirm = true
		return nil
	}

	switch s.Phase() {
	case session.PhaseAnswering:
		s.choice, _ = s.choice.Update(msg)
		if s.choice.Submitted {
			return s.submit(s.choice.ChosenIndex)
		}
	case session.PhaseFeedback, session.PhaseCompleted:
		if key == "enter" || key == "space" || key == " " {
			return s.advance()
		}
	}
	return nil
}

func (s *TrainerScreen) submit(index int) tea.Cmd {
	res, err := s.ctrl.Submit(index)
	if err != nil {
		// Out-of-range picks leave the question open.
		if errors.Is(err, session.ErrInvalidAnswer) {
			s.choice = components.NewMultiChoice(s.ctrl.State().CurrentQuestion)
			return nil
		}
		s.errMsg = err.Error()
		return nil
	}
	return s.graded(res)
}

func (s *TrainerScreen) timeout() tea.Cmd {
	res, err := s.ctrl.Timeout()
	if err != nil {
		return nil
	}
	return s.graded(res)
}

// graded shows feedback for res and asks the tutor about wrong answers.
func (s *TrainerScreen) graded(res *session.AnswerResult) tea.Cmd {
	s.result = res
	s.choice = s.choice.Reveal(res.Chosen)
	s.timerGen++
	_ = s.recorder.Answered(context.Background(), s.ctrl.State(), res)

	if res.Correct || s.deps.Tutor == nil {
		return nil
	}
	seq, err := s.deps.Tutor.Request(context.Background(), tutor.Input{
		TopicName: s.ctrl.Topic().Name,
		Question:  res.Question,
		Chosen:    res.Chosen,
	})
	if err != nil {
		s.deps.Logger.Debug("tutor request failed", zap.Error(err))
		return nil
	}
	s.tutorSeq = seq
	s.tutorPending = true
	return pollCmd(seq)
}

// advance moves past feedback to the next question or the summary.
func (s *TrainerScreen) advance() tea.Cmd {
	if s.result == nil {
		return nil
	}
	if s.result.Completed {
		return s.finish()
	}
	q, err := s.ctrl.Next()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return s.showQuestion(q)
}

// finish records the session and replaces this screen with its summary.
func (s *TrainerScreen) finish() tea.Cmd {
	s.ctrl.Stop()
	s.timerGen++
	s.tutorPending = false
	sum := s.ctrl.Summary()
	_ = s.recorder.SessionEnded(context.Background(), sum)

	deps, topic := s.deps, s.topicID
	next := summary.New(sum, s.ctrl.Topic().Name, s.prevBest, func() screen.Screen {
		return New(deps, topic)
	})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *TrainerScreen) handleTick(msg timerTickMsg) tea.Cmd {
	if msg.Gen != s.timerGen || s.Phase() != session.PhaseAnswering {
		return nil
	}
	// The countdown pauses while the quit dialog is open.
	if s.quitConfirm {
		return tickCmd(msg.Gen)
	}
	s.remaining -= tickInterval
	if s.remaining <= 0 {
		s.remaining = 0
		return s.timeout()
	}
	return tickCmd(msg.Gen)
}

func (s *TrainerScreen) handleTutorPoll(msg tutorPollMsg) tea.Cmd {
	if !s.tutorPending || msg.Seq != s.tutorSeq || s.deps.Tutor == nil {
		return nil
	}
	res, ok := s.deps.Tutor.Consume()
	if !ok {
		return pollCmd(msg.Seq)
	}
	if res.Seq != s.tutorSeq {
		return pollCmd(msg.Seq)
	}
	s.tutorPending = false
	if res.Err != nil {
		s.deps.Logger.Debug("tutor explanation failed", zap.Error(res.Err))
		return nil
	}
	s.explanation = res.Explanation
	return nil
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{Gen: gen}
	})
}

func pollCmd(seq int) tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return tutorPollMsg{Seq: seq}
	})
}
