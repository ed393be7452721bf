package problemgen

import (
	"slices"
	"strings"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/rng"
)

// flipChance is the per-token probability of swapping a blank to an
// alternate form when building a wrong dialogue option.
const flipChance = 0.45

// blankSlots are the placeholders blanked in dialogues.
var blankSlots = []string{"verb", "do"}

// Dialogue blanks every agreeing verb in a short two-line exchange and
// asks for the full sequence of missing words.
type Dialogue struct {
	topic *grammar.Topic
}

func (g *Dialogue) Archetype() Archetype { return ArchetypeContext }

func (g *Dialogue) Generate(tier grammar.Tier, src rng.Source) *Question {
	s, v, tmpl := clause(g.topic, grammar.TierEasy, g.topic.Templates.Dialogue, src)
	r := sentence(g.topic, tmpl, s, v, src)
	prompt, tokens := r.Blank(blankSlots...)
	correct := strings.Join(tokens, DialogueSeparator)

	alternates := make([][]string, len(tokens))
	i := 0
	for _, sp := range r.Spans {
		if !slices.Contains(blankSlots, sp.Name) {
			continue
		}
		alternates[i] = alternateForms(g.topic, v, sp)
		i++
	}

	var wrongs []string
	for attempt := 0; attempt < maxDistractorAttempts && len(wrongs) < maxOptions-1; attempt++ {
		flipped := make([]string, len(tokens))
		for j, tok := range tokens {
			flipped[j] = tok
			if len(alternates[j]) > 0 && rng.Chance(src, flipChance) {
				flipped[j] = rng.Pick(src, alternates[j])
			}
		}
		cand := strings.Join(flipped, DialogueSeparator)
		if cand != correct && !slices.Contains(wrongs, cand) {
			wrongs = append(wrongs, cand)
		}
	}
	// Random flips ran dry: flip one token at a time. If that still
	// yields fewer than three, the option list shrinks.
	for j := range tokens {
		for _, alt := range alternates[j] {
			if len(wrongs) >= maxOptions-1 {
				break
			}
			flipped := slices.Clone(tokens)
			flipped[j] = alt
			cand := strings.Join(flipped, DialogueSeparator)
			if cand != correct && !slices.Contains(wrongs, cand) {
				wrongs = append(wrongs, cand)
			}
		}
	}
	options, idx := assemble(correct, wrongs, src)

	form := g.topic.Agree(s, v)
	filled, _ := grammar.FillBlanks(prompt, tokens)
	meta := metadata(g.topic, ArchetypeContext, tier, s, form, strings.ReplaceAll(filled, "\n", " "))
	meta.Blanks = tokens
	return &Question{
		Instruction:  "Choose the words that complete the dialogue, in order.",
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: idx,
		Meta:         meta,
	}
}

// alternateForms returns the other agreement forms for a blanked span,
// capitalized to match the original token.
func alternateForms(t *grammar.Topic, v grammar.Verb, sp grammar.Span) []string {
	var forms []string
	switch sp.Name {
	case "do":
		forms = []string{"do", "does"}
	default:
		forms = t.AgreementForms(v)
	}
	capital := sp.Value != strings.ToLower(sp.Value)
	var out []string
	for _, f := range forms {
		if capital {
			f = grammar.Capitalize(f)
		}
		if f != sp.Value {
			out = append(out, f)
		}
	}
	return out
}
