package tutor

import "github.com/abhisek/grammiz/internal/problemgen"

// Input is everything the tutor needs to explain one wrong answer.
type Input struct {
	TopicName string
	Question  *problemgen.Question

	// Chosen is the learner's option index, or -1 on a timeout.
	Chosen int
}

// ChosenText returns the learner's answer, or "" when they ran out of time.
func (in Input) ChosenText() string {
	if in.Question == nil || in.Chosen < 0 || in.Chosen >= len(in.Question.Options) {
		return ""
	}
	return in.Question.Options[in.Chosen]
}

// Explanation is an LLM-written note about a mistake.
type Explanation struct {
	Explanation string
	Tip         string
	Example     string
}

// Result is the outcome of one asynchronous request.
type Result struct {
	// Seq identifies the request that produced this result.
	Seq         int
	Explanation *Explanation
	Err         error
}
