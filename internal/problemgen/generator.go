package problemgen

import (
	"errors"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/rng"
)

var (
	// ErrUnknownArchetype is returned for an archetype name that no
	// generator handles.
	ErrUnknownArchetype = errors.New("unknown archetype")

	// ErrUnknownTopic is returned when the registry has no such topic.
	ErrUnknownTopic = grammar.ErrUnknownTopic
)

// Generator produces questions of one archetype for one topic.
type Generator interface {
	// Archetype identifies the question style this generator produces.
	Archetype() Archetype

	// Generate builds a question. Only generators whose output depends on
	// difficulty look at tier. Generation does not fail once the generator
	// has been constructed from a validated topic.
	Generate(tier grammar.Tier, src rng.Source) *Question
}

// NewGenerators builds one generator per archetype for topic t.
func NewGenerators(t *grammar.Topic) map[Archetype]Generator {
	gens := []Generator{
		&FillIn{topic: t},
		&Recognition{topic: t},
		&ErrorCorrection{topic: t},
		&Transformation{topic: t},
		&Dialogue{topic: t},
	}
	out := make(map[Archetype]Generator, len(gens))
	for _, g := range gens {
		out[g.Archetype()] = g
	}
	return out
}

// sentence renders a template that has passed rule-table validation.
func sentence(t *grammar.Topic, tmpl string, s grammar.Subject, v grammar.Verb, src rng.Source) grammar.Rendered {
	r, err := t.Sentence(tmpl, s, v, src)
	if err != nil {
		panic("problemgen: validated template failed to render: " + err.Error())
	}
	return r
}

// clause picks a subject, verb and template for tier.
func clause(t *grammar.Topic, tier grammar.Tier, tmpls []string, src rng.Source) (grammar.Subject, grammar.Verb, string) {
	s := t.PickSubject(tier, src)
	v := t.PickVerb(src)
	return s, v, rng.Pick(src, tmpls)
}

func metadata(t *grammar.Topic, a Archetype, tier grammar.Tier, s grammar.Subject, form, correctSentence string) Metadata {
	return Metadata{
		Topic:       t.ID,
		Archetype:   a,
		Tier:        tier,
		Subject:     s.Text,
		Pronoun:     s.Pronoun,
		CorrectForm: form,
		Explanation: t.Explain(s, form, correctSentence),
		Hint:        t.HintFor(s, form),
	}
}
