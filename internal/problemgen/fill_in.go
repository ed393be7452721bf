package problemgen

import (
	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/rng"
)

// FillIn blanks the verb of a sentence and offers the topic's fill-in
// forms as options. Templates and subjects vary by tier.
type FillIn struct {
	topic *grammar.Topic
}

func (g *FillIn) Archetype() Archetype { return ArchetypeFillIn }

func (g *FillIn) Generate(tier grammar.Tier, src rng.Source) *Question {
	s, v, tmpl := clause(g.topic, tier, g.topic.Templates.FillIn[tier], src)
	r := sentence(g.topic, tmpl, s, v, src)
	prompt, _ := r.Blank("verb")
	form := g.topic.Agree(s, v)

	var forms []string
	for _, key := range g.topic.FillInForms {
		forms = append(forms, v.Form(key))
	}
	options, idx := assemble(form, distinct(form, forms), src)

	return &Question{
		Instruction:  "Choose the word that completes the sentence.",
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: idx,
		Meta:         metadata(g.topic, ArchetypeFillIn, tier, s, form, r.Text),
	}
}
