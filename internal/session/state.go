package session

import (
	"time"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
)

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseIdle      SessionPhase = iota // Created, not started
	PhasePlaying                       // Fetching the next question
	PhaseAnswering                     // Waiting for the learner's choice
	PhaseFeedback                      // Showing the result of the last answer
	PhaseCompleted                     // Out of lives or stopped
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// SessionState tracks the runtime state of a session.
type SessionState struct {
	// SessionID is the UUID for this run; a restart gets a new one.
	SessionID string

	Topic grammar.TopicID
	Phase SessionPhase

	// CurrentQuestion is the question being answered or just graded.
	CurrentQuestion *problemgen.Question

	// CurrentTier is the tier the current question was generated for.
	CurrentTier grammar.Tier

	Score     int
	Streak    int
	MaxStreak int
	Lives     int

	QuestionsAnswered int
	CorrectAnswers    int

	// PerArchetype tracks per-archetype stats for the summary.
	PerArchetype map[problemgen.Archetype]*ArchetypeResult

	StartTime time.Time
	EndTime   time.Time

	// QuestionStartTime is when the current question was served.
	QuestionStartTime time.Time

	// LastResult is the most recent graded answer.
	LastResult *AnswerResult
}

// ArchetypeResult tracks performance on one question style.
type ArchetypeResult struct {
	Archetype problemgen.Archetype
	Attempted int
	Correct   int
}

// Accuracy returns the fraction answered correctly so far.
func (s *SessionState) Accuracy() float64 {
	if s.QuestionsAnswered == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.QuestionsAnswered)
}

// Feedback is the text shown after an answer.
type Feedback struct {
	// Headline is a motivational line after a correct answer, or the
	// correct answer after a wrong one.
	Headline string

	// Detail is the explanation, hint or rule of thumb shown after a wrong
	// answer, whichever is available first.
	Detail string
}

// AnswerResult describes one graded answer.
type AnswerResult struct {
	Question *problemgen.Question

	// Chosen is the selected option index, or -1 when the timer expired.
	Chosen   int
	Correct  bool
	TimedOut bool

	Feedback Feedback

	Score     int
	Streak    int
	Lives     int
	Completed bool

	ResponseTime time.Duration
}
