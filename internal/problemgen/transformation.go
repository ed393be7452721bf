package problemgen

import (
	"strings"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/rng"
)

const (
	TargetNegative = "negative"
	TargetQuestion = "question"
)

// Transformation asks for the negative or question form of an
// affirmative sentence.
type Transformation struct {
	topic *grammar.Topic
}

func (g *Transformation) Archetype() Archetype { return ArchetypeTransformation }

// clauseParts is an affirmative sentence split around its verb.
type clauseParts struct {
	subject string // as rendered at sentence start
	inner   string // subject as written mid-sentence
	form    string // agreeing verb form
	other   string // a non-agreeing verb form
	base    string
	s       string // third-person -s form, do-support only
	aux     string // do or does
	other2  string // the other of do/does
	rest    string // everything after the verb, without the final period
}

func (g *Transformation) Generate(tier grammar.Tier, src rng.Source) *Question {
	s, v, tmpl := clause(g.topic, grammar.TierEasy, g.topic.Templates.Transformation, src)
	r := sentence(g.topic, tmpl, s, v, src)
	verbIdx := verbSpan(r)
	form := g.topic.Agree(s, v)

	var others []string
	for _, f := range g.topic.AgreementForms(v) {
		if f != form {
			others = append(others, f)
		}
	}
	p := clauseParts{
		subject: r.Spans[0].Value,
		inner:   s.Text,
		form:    form,
		other:   rng.Pick(src, others),
		base:    v.Form("base"),
		s:       v.Form("s"),
		aux:     grammar.DoAux(s.Pronoun),
		rest:    strings.TrimSuffix(strings.TrimSpace(r.Text[r.Spans[verbIdx].End:]), "."),
	}
	p.other2 = "do"
	if p.aux == "do" {
		p.other2 = "does"
	}

	target := TargetNegative
	if rng.Chance(src, 0.5) {
		target = TargetQuestion
	}

	var (
		correct    string
		candidates []string
		pivot      string
	)
	switch g.topic.Transform {
	case grammar.TransformDoSupport:
		correct, candidates = doSupportForms(p, target)
		pivot = p.aux
	default:
		correct, candidates = auxiliaryForms(p, target)
		pivot = form
	}
	wrongs := pickDistractors(correct, candidates, maxOptions-1, src)
	options, idx := assemble(correct, wrongs, src)

	instruction := "Make the sentence negative."
	if target == TargetQuestion {
		instruction = "Turn the sentence into a question."
	}
	meta := metadata(g.topic, ArchetypeTransformation, tier, s, pivot, correct)
	meta.Target = target
	return &Question{
		Instruction:  instruction,
		Prompt:       r.Text,
		Options:      options,
		CorrectIndex: idx,
		Meta:         meta,
	}
}

func join(words ...string) string {
	var parts []string
	for _, w := range words {
		if w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}

// auxiliaryForms handles topics whose verb is its own auxiliary: "not"
// goes after the verb and questions front it.
func auxiliaryForms(p clauseParts, target string) (string, []string) {
	doAux := grammar.Capitalize(p.aux)
	if target == TargetQuestion {
		correct := join(grammar.Capitalize(p.form), p.inner, p.rest) + "?"
		return correct, []string{
			join(p.subject, p.form, p.rest) + "?",
			join(doAux, p.inner, p.base, p.rest) + "?",
			join(grammar.Capitalize(p.other), p.inner, p.rest) + "?",
		}
	}
	correct := join(p.subject, p.form, "not", p.rest) + "."
	return correct, []string{
		join(p.subject, "not", p.form, p.rest) + ".",
		join(p.subject, p.aux, "not", p.base, p.rest) + ".",
		join(p.subject, p.other, "not", p.rest) + ".",
		join(p.subject, p.form, p.rest, "not") + ".",
	}
}

// doSupportForms handles lexical verbs: negatives and questions take
// do/does with the base form.
func doSupportForms(p clauseParts, target string) (string, []string) {
	if target == TargetQuestion {
		correct := join(grammar.Capitalize(p.aux), p.inner, p.base, p.rest) + "?"
		return correct, []string{
			join(grammar.Capitalize(p.aux), p.inner, p.s, p.rest) + "?",
			join(grammar.Capitalize(p.other2), p.inner, p.base, p.rest) + "?",
			join(grammar.Capitalize(p.form), p.inner, p.rest) + "?",
			join(p.subject, p.form, p.rest) + "?",
		}
	}
	correct := join(p.subject, p.aux, "not", p.base, p.rest) + "."
	return correct, []string{
		join(p.subject, "not", p.form, p.rest) + ".",
		join(p.subject, p.aux, "not", p.s, p.rest) + ".",
		join(p.subject, p.other2, "not", p.base, p.rest) + ".",
		join(p.subject, p.aux, p.base, "not", p.rest) + ".",
	}
}
