package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/grammiz/internal/problemgen"
)

const systemPrompt = `You are a patient, encouraging English teacher for beginner learners. A learner has just answered a multiple-choice grammar question incorrectly and needs a short, clear explanation.`

func buildUserMessage(in Input) string {
	q := in.Question
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.TopicName)
	fmt.Fprintf(&b, "Question type: %s\n", q.Meta.Archetype.Label())
	fmt.Fprintf(&b, "Instruction: %s\n", q.Instruction)
	fmt.Fprintf(&b, "Question: %s\n", problemgen.StripMarkup(q.Prompt))

	b.WriteString("\nOptions:\n")
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}

	fmt.Fprintf(&b, "\nCorrect answer: %s\n", q.Answer())
	if chosen := in.ChosenText(); chosen != "" {
		fmt.Fprintf(&b, "Learner chose: %s\n", chosen)
	} else {
		b.WriteString("Learner ran out of time.\n")
	}
	if q.Meta.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s (%s)\n", q.Meta.Subject, q.Meta.Pronoun)
	}

	b.WriteString(`
Instructions:
1. Explain in 2-3 simple sentences why the correct answer is right. If the learner chose an answer, say what is wrong with it.
2. Give one short rule of thumb the learner can remember.
3. Give one new example sentence that follows the same rule. Do not reuse the question sentence.
4. Use plain text only. No markdown.`)

	return b.String()
}
