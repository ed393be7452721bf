package problemgen

import (
	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/rng"
)

// Recognition shows one correct sentence among variants that use a wrong
// verb form for the same subject.
type Recognition struct {
	topic *grammar.Topic
}

func (g *Recognition) Archetype() Archetype { return ArchetypeRecognition }

func (g *Recognition) Generate(tier grammar.Tier, src rng.Source) *Question {
	s, v, tmpl := clause(g.topic, grammar.TierEasy, g.topic.Templates.Recognition, src)
	r := sentence(g.topic, tmpl, s, v, src)
	form := g.topic.Agree(s, v)
	verbIdx := verbSpan(r)

	var candidates []string
	for _, f := range wrongForms(g.topic, v, form) {
		candidates = append(candidates, r.Replace(verbIdx, f))
	}
	wrongs := pickDistractors(r.Text, candidates, maxOptions-1, src)
	options, idx := assemble(r.Text, wrongs, src)

	return &Question{
		Instruction:  "Only one sentence is correct. Which one?",
		Prompt:       "Which sentence is correct?",
		Options:      options,
		CorrectIndex: idx,
		Meta:         metadata(g.topic, ArchetypeRecognition, tier, s, form, r.Text),
	}
}

// wrongForms lists verb phrases that do not agree with the subject whose
// correct form is form: the other agreement forms, then the topic's extra
// wrong phrases.
func wrongForms(t *grammar.Topic, v grammar.Verb, form string) []string {
	var out []string
	for _, f := range t.AgreementForms(v) {
		if f != form {
			out = append(out, f)
		}
	}
	for _, tmpl := range t.ExtraWrong {
		r, err := grammar.Render(tmpl, v.Forms)
		if err != nil {
			continue
		}
		if r.Text != form {
			out = append(out, r.Text)
		}
	}
	return out
}

// verbSpan returns the index of the first {verb} span.
func verbSpan(r grammar.Rendered) int {
	for i, s := range r.Spans {
		if s.Name == "verb" {
			return i
		}
	}
	panic("problemgen: template has no {verb} placeholder")
}
