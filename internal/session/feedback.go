package session

import (
	"fmt"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
)

// DefaultMessages are shown after a correct answer.
var DefaultMessages = []string{
	"Great job!",
	"Well done!",
	"Excellent!",
	"You got it!",
	"Perfect!",
	"Nice work!",
	"Brilliant!",
	"Spot on!",
}

// streakCallout is the streak length from which the headline mentions it.
const streakCallout = 3

func correctFeedback(messages []string, streak int, src rng.Source) Feedback {
	msg := rng.Pick(src, messages)
	if streak >= streakCallout {
		msg = fmt.Sprintf("%s %d in a row!", msg, streak)
	}
	return Feedback{Headline: msg}
}

// wrongFeedback shows the correct answer with the first available of the
// question's explanation, its hint, or the topic's rule of thumb for the
// subject's pronoun.
func wrongFeedback(q *problemgen.Question, topic *grammar.Topic, timedOut bool) Feedback {
	headline := fmt.Sprintf("The correct answer is: %s", problemgen.StripMarkup(q.Answer()))
	if timedOut {
		headline = "Time's up! " + headline
	}
	detail := q.Meta.Explanation
	if detail == "" {
		detail = q.Meta.Hint
	}
	if detail == "" && topic != nil {
		detail = topic.RuleOfThumb(q.Meta.Pronoun)
	}
	return Feedback{Headline: headline, Detail: detail}
}
