package problemgen

import (
	"fmt"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/rng"
)

// ErrorCorrection flags a wrong verb form in a sentence and asks for the
// repair that fixes it.
type ErrorCorrection struct {
	topic *grammar.Topic
}

func (g *ErrorCorrection) Archetype() Archetype { return ArchetypeErrorCorrection }

func (g *ErrorCorrection) Generate(tier grammar.Tier, src rng.Source) *Question {
	s, v, tmpl := clause(g.topic, grammar.TierEasy, g.topic.Templates.ErrorCorrection, src)
	r := sentence(g.topic, tmpl, s, v, src)
	form := g.topic.Agree(s, v)

	var others []string
	for _, f := range g.topic.AgreementForms(v) {
		if f != form {
			others = append(others, f)
		}
	}
	wrong := rng.Pick(src, others)
	verbIdx := verbSpan(r)
	prompt := r.Replace(verbIdx, EmphasisMarker+wrong+EmphasisMarker)
	subjectText := r.Spans[0].Value

	correct := fmt.Sprintf("Change %q to %q", wrong, form)

	// Repairs that leave the sentence wrong, in order of preference.
	var candidates []string
	if alt, ok := stillWrongSubject(g.topic, s, v, wrong, src); ok {
		candidates = append(candidates, fmt.Sprintf("Change %q to %q", subjectText, grammar.Capitalize(alt.Text)))
	}
	candidates = append(candidates,
		fmt.Sprintf("Add \"not\" after %q", wrong),
		"The sentence is already correct",
	)
	for _, f := range wrongForms(g.topic, v, form) {
		if f != wrong {
			candidates = append(candidates, fmt.Sprintf("Change %q to %q", wrong, f))
		}
	}
	wrongs := distinct(correct, candidates)
	if len(wrongs) > maxOptions-1 {
		wrongs = wrongs[:maxOptions-1]
	}
	options, idx := assemble(correct, wrongs, src)

	meta := metadata(g.topic, ArchetypeErrorCorrection, tier, s, form, r.Text)
	meta.WrongForm = wrong
	return &Question{
		Instruction:  "One word is wrong. How do you fix the sentence?",
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: idx,
		Meta:         meta,
	}
}

// stillWrongSubject finds a different pronoun subject that also does not
// agree with the wrong form, so swapping it in does not repair the sentence.
func stillWrongSubject(t *grammar.Topic, s grammar.Subject, v grammar.Verb, wrong string, src rng.Source) (grammar.Subject, bool) {
	pool := t.SubjectsFor(grammar.TierLvl0)
	rng.Shuffle(src, pool)
	for _, alt := range pool {
		if alt.Text == s.Text || t.Agree(alt, v) == wrong {
			continue
		}
		return alt, true
	}
	return grammar.Subject{}, false
}
