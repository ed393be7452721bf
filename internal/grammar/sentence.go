package grammar

import (
	"github.com/abhisek/grammiz/internal/rng"
)

// Values builds the placeholder values for tmpl with subject s and verb v.
// Non-reserved placeholders are drawn from the topic vocabulary; a
// placeholder used twice in one template gets the same value.
func (t *Topic) Values(tmpl string, s Subject, v Verb, src rng.Source) (map[string]string, error) {
	names, err := Placeholders(tmpl)
	if err != nil {
		return nil, err
	}
	vals := make(map[string]string, len(names))
	for _, n := range names {
		switch n {
		case "subject":
			vals[n] = s.Text
		case "verb":
			vals[n] = t.Agree(s, v)
		case "do":
			vals[n] = DoAux(s.Pronoun)
		case "base":
			vals[n] = v.Form("base")
		case "complement":
			vals[n] = rng.Pick(src, v.Complements)
		default:
			pool := t.Vocabulary[n]
			if len(pool) == 0 {
				return nil, &ConfigError{Source: string(t.ID), Err: ErrInvalidInput}
			}
			vals[n] = rng.Pick(src, pool)
		}
	}
	return vals, nil
}

// Sentence renders tmpl for subject s and verb v.
func (t *Topic) Sentence(tmpl string, s Subject, v Verb, src rng.Source) (Rendered, error) {
	vals, err := t.Values(tmpl, s, v, src)
	if err != nil {
		return Rendered{}, err
	}
	return Render(tmpl, vals)
}

// PickSubject chooses a subject usable at tier.
func (t *Topic) PickSubject(tier Tier, src rng.Source) Subject {
	return rng.Pick(src, t.SubjectsFor(tier))
}

// PickVerb chooses one of the topic's verbs.
func (t *Topic) PickVerb(src rng.Source) Verb {
	return rng.Pick(src, t.Verbs)
}

// Explain renders the topic's explanation for a correct sentence.
func (t *Topic) Explain(s Subject, form, sentence string) string {
	r, err := Render(t.Explanation, map[string]string{"subject": s.Text, "form": form, "sentence": sentence})
	if err != nil {
		return sentence
	}
	return r.Text
}

// HintFor renders the topic's hint for subject s.
func (t *Topic) HintFor(s Subject, form string) string {
	r, err := Render(t.Hint, map[string]string{"subject": s.Text, "form": form, "sentence": ""})
	if err != nil {
		return ""
	}
	return r.Text
}
