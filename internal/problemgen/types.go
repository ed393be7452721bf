package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/grammiz/internal/grammar"
)

// Archetype is a question style.
type Archetype string

const (
	ArchetypeFillIn          Archetype = "fill-in"
	ArchetypeRecognition     Archetype = "recognition"
	ArchetypeErrorCorrection Archetype = "error-correction"
	ArchetypeTransformation  Archetype = "transformation"
	ArchetypeContext         Archetype = "context"
)

// AllArchetypes returns all archetypes in the stable order used for
// weighted selection.
func AllArchetypes() []Archetype {
	return []Archetype{
		ArchetypeFillIn,
		ArchetypeRecognition,
		ArchetypeErrorCorrection,
		ArchetypeTransformation,
		ArchetypeContext,
	}
}

// Label returns a human-readable name for the archetype.
func (a Archetype) Label() string {
	switch a {
	case ArchetypeFillIn:
		return "Fill in the blank"
	case ArchetypeRecognition:
		return "Spot the correct sentence"
	case ArchetypeErrorCorrection:
		return "Fix the mistake"
	case ArchetypeTransformation:
		return "Transform"
	case ArchetypeContext:
		return "Dialogue"
	default:
		return string(a)
	}
}

// ParseArchetype converts a name into an Archetype.
func ParseArchetype(s string) (Archetype, error) {
	for _, a := range AllArchetypes() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownArchetype, s)
}

// EmphasisMarker wraps the flagged word in error-correction prompts,
// e.g. "He **are** happy."
const EmphasisMarker = "**"

// DialogueSeparator joins the blank tokens of a dialogue option.
const DialogueSeparator = " / "

// Question is a generated multiple-choice question ready for display.
type Question struct {
	// Instruction tells the learner what to do, e.g. "Make the sentence negative."
	Instruction string

	// Prompt is the question body. It may contain grammar.BlankMarker
	// blanks and EmphasisMarker spans.
	Prompt string

	// Options are the answer choices, distinct under exact comparison.
	Options []string

	// CorrectIndex is the index of the correct option.
	CorrectIndex int

	Meta Metadata
}

// Answer returns the text of the correct option.
func (q *Question) Answer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// IsCorrect reports whether option index i is the correct one.
func (q *Question) IsCorrect(i int) bool {
	return i == q.CorrectIndex
}

// Metadata carries what feedback and analytics need to know about a question.
type Metadata struct {
	Topic     grammar.TopicID
	Archetype Archetype
	Tier      grammar.Tier

	// Subject is the subject text and Pronoun its agreement class.
	Subject string
	Pronoun grammar.Pronoun

	// CorrectForm is the verb or auxiliary the correct answer hinges on.
	CorrectForm string

	// WrongForm is the flagged form of an error-correction question.
	WrongForm string

	// Target is "negative" or "question" for transformations.
	Target string

	// Blanks are the tokens removed from a dialogue, in order.
	Blanks []string

	Explanation string
	Hint        string
}

// StripMarkup removes emphasis markers from text.
func StripMarkup(text string) string {
	return strings.ReplaceAll(text, EmphasisMarker, "")
}
