package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session lifecycle actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID         string
	Topic             string
	Action            string
	QuestionsAnswered int
	CorrectAnswers    int
	Score             int
	MaxStreak         int
	DurationSecs      int
}

// AnswerEvent is a stored graded answer.
type AnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AnswerEventData captures a single graded answer.
type AnswerEventData struct {
	SessionID     string
	Topic         string
	Archetype     string
	Tier          string
	Prompt        string
	CorrectAnswer string
	ChosenAnswer  string
	Correct       bool
	TimedOut      bool
	TimeMs        int64
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// TopicStat aggregates answers for one topic.
type TopicStat struct {
	Topic     string
	Sessions  int
	Attempts  int
	Correct   int
	BestScore int
}

// ArchetypeStat aggregates answers for one topic and archetype.
type ArchetypeStat struct {
	Topic     string
	Archetype string
	Attempts  int
	Correct   int
	AvgTimeMs int64
}

// LLMUsageStat aggregates LLM usage for one purpose.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records a graded answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentSessions returns completed sessions, newest first.
	RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// TopicStats aggregates answers and best scores per topic.
	TopicStats(ctx context.Context) ([]TopicStat, error)

	// ArchetypeStats aggregates answers per topic and archetype.
	ArchetypeStats(ctx context.Context) ([]ArchetypeStat, error)

	// SessionMistakes returns the wrong or timed-out answers of one session
	// in the order they were given.
	SessionMistakes(ctx context.Context, sessionID string) ([]AnswerEvent, error)

	// BestScore returns the highest completed-session score for a topic.
	BestScore(ctx context.Context, topic string) (int, error)

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates LLM usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)

	// LLMUsageByModel aggregates LLM usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
