package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo implements EventRepo backed by SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.Action != ActionStart && data.Action != ActionEnd {
		return fmt.Errorf("unknown session action %q", data.Action)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO session_events
		(sequence, timestamp, session_id, topic, action, questions_answered, correct_answers, score, max_streak, duration_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, r.now().UnixMilli(), data.SessionID, data.Topic, data.Action,
		data.QuestionsAnswered, data.CorrectAnswers, data.Score, data.MaxStreak, data.DurationSecs)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO answer_events
		(sequence, timestamp, session_id, topic, archetype, tier, prompt, correct_answer, chosen_answer, correct, timed_out, time_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, r.now().UnixMilli(), data.SessionID, data.Topic, data.Archetype, data.Tier,
		data.Prompt, data.CorrectAnswer, data.ChosenAnswer, data.Correct, data.TimedOut, data.TimeMs)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	q, args := opts.build(`SELECT id, sequence, timestamp, session_id, topic, action,
		questions_answered, correct_answers, score, max_streak, duration_secs
		FROM session_events`, "action = ?", ActionEnd)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		var ts int64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Topic, &e.Action,
			&e.QuestionsAnswered, &e.CorrectAnswers, &e.Score, &e.MaxStreak, &e.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) TopicStats(ctx context.Context) ([]TopicStat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT a.topic,
			COUNT(DISTINCT a.session_id),
			COUNT(*),
			COALESCE(SUM(a.correct), 0),
			COALESCE((SELECT MAX(s.score) FROM session_events s WHERE s.topic = a.topic AND s.action = ?), 0)
		FROM answer_events a
		GROUP BY a.topic
		ORDER BY a.topic`, ActionEnd)
	if err != nil {
		return nil, fmt.Errorf("query topic stats: %w", err)
	}
	defer rows.Close()

	var out []TopicStat
	for rows.Next() {
		var st TopicStat
		if err := rows.Scan(&st.Topic, &st.Sessions, &st.Attempts, &st.Correct, &st.BestScore); err != nil {
			return nil, fmt.Errorf("scan topic stat: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *eventRepo) ArchetypeStats(ctx context.Context) ([]ArchetypeStat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT topic, archetype, COUNT(*),
			COALESCE(SUM(correct), 0), CAST(COALESCE(AVG(time_ms), 0) AS INTEGER)
		FROM answer_events
		GROUP BY topic, archetype
		ORDER BY topic, archetype`)
	if err != nil {
		return nil, fmt.Errorf("query archetype stats: %w", err)
	}
	defer rows.Close()

	var out []ArchetypeStat
	for rows.Next() {
		var st ArchetypeStat
		if err := rows.Scan(&st.Topic, &st.Archetype, &st.Attempts, &st.Correct, &st.AvgTimeMs); err != nil {
			return nil, fmt.Errorf("scan archetype stat: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *eventRepo) SessionMistakes(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, session_id, topic, archetype, tier,
			prompt, correct_answer, chosen_answer, correct, timed_out, time_ms
		FROM answer_events
		WHERE session_id = ? AND correct = 0
		ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query mistakes: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var e AnswerEvent
		var ts int64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Topic, &e.Archetype, &e.Tier,
			&e.Prompt, &e.CorrectAnswer, &e.ChosenAnswer, &e.Correct, &e.TimedOut, &e.TimeMs); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) BestScore(ctx context.Context, topic string) (int, error) {
	var best int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM session_events WHERE topic = ? AND action = ?`,
		topic, ActionEnd).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("query best score: %w", err)
	}
	return best, nil
}
