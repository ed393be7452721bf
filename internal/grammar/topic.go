package grammar

import (
	"slices"
	"strings"
)

// TopicID identifies a grammar topic, e.g. "to-be".
type TopicID string

// Pronoun is the agreement class of a subject.
type Pronoun string

const (
	PronounI    Pronoun = "i"
	PronounYou  Pronoun = "you"
	PronounHe   Pronoun = "he"
	PronounShe  Pronoun = "she"
	PronounIt   Pronoun = "it"
	PronounWe   Pronoun = "we"
	PronounThey Pronoun = "they"
)

// AllPronouns returns every agreement class in conventional order.
func AllPronouns() []Pronoun {
	return []Pronoun{PronounI, PronounYou, PronounHe, PronounShe, PronounIt, PronounWe, PronounThey}
}

// ThirdSingular reports whether p takes third-person-singular agreement.
func (p Pronoun) ThirdSingular() bool {
	return p == PronounHe || p == PronounShe || p == PronounIt
}

// DoAux returns the do-support auxiliary for p.
func DoAux(p Pronoun) string {
	if p.ThirdSingular() {
		return "does"
	}
	return "do"
}

// TransformKind selects how negatives and questions are formed.
type TransformKind string

const (
	// TransformAuxiliary inserts "not" after the verb and fronts it for questions.
	TransformAuxiliary TransformKind = "auxiliary"

	// TransformDoSupport uses do/does with the base form of the verb.
	TransformDoSupport TransformKind = "do-support"
)

// Subject is a sentence subject tagged with its agreement class.
type Subject struct {
	// Text is the subject as it appears mid-sentence ("he", "my brother", "Anna").
	Text    string
	Pronoun Pronoun
	// MinTier is the lowest tier the subject is used at.
	MinTier Tier
}

// Verb is a set of named forms, e.g. {"base": "play", "s": "plays", "ing": "playing"}.
type Verb struct {
	Forms map[string]string
	// Complements are verb-specific predicate endings ("football", "TV").
	// Empty for topics whose complements come from vocabulary pools.
	Complements []string
}

// Form returns the form named key, or "" if absent.
func (v Verb) Form(key string) string {
	return v.Forms[key]
}

// Templates holds the sentence templates of a topic, per archetype.
type Templates struct {
	Recognition     []string
	ErrorCorrection []string
	Transformation  []string
	Dialogue        []string
	FillIn          map[Tier][]string
}

// Topic is the immutable rule table for one grammar topic.
type Topic struct {
	ID          TopicID
	Name        string
	Description string
	Version     string

	Verbs []Verb
	// Agreement maps a pronoun class to the verb form key it takes.
	Agreement map[Pronoun]string
	// FillInForms are the form keys offered as fill-in options.
	FillInForms []string
	// ExtraWrong are templates for additional wrong verb phrases used by
	// recognition, rendered with the verb's forms as values.
	ExtraWrong []string
	Transform  TransformKind

	Subjects   []Subject
	Vocabulary map[string][]string
	Templates  Templates

	// Explanation and Hint are templates over {subject}, {form} and {sentence}.
	Explanation string
	Hint        string

	RulesOfThumb map[Pronoun]string
}

// Agree returns the form of v that agrees with s.
func (t *Topic) Agree(s Subject, v Verb) string {
	return v.Form(t.Agreement[s.Pronoun])
}

// AgreementForms returns the distinct forms of v reachable through the
// agreement table, in first-seen pronoun order.
func (t *Topic) AgreementForms(v Verb) []string {
	var forms []string
	for _, p := range AllPronouns() {
		f := v.Form(t.Agreement[p])
		if f != "" && !slices.Contains(forms, f) {
			forms = append(forms, f)
		}
	}
	return forms
}

// SubjectsFor returns the subjects usable at tier.
func (t *Topic) SubjectsFor(tier Tier) []Subject {
	var out []Subject
	for _, s := range t.Subjects {
		if s.MinTier <= tier {
			out = append(out, s)
		}
	}
	return out
}

// RuleOfThumb returns the short agreement rule for p, or "".
func (t *Topic) RuleOfThumb(p Pronoun) string {
	return t.RulesOfThumb[p]
}

// WithSubjects returns a copy of t restricted to subjects whose text
// matches one of texts (case-insensitive). The copy shares all other
// tables with t.
func (t *Topic) WithSubjects(texts ...string) (*Topic, error) {
	var subjects []Subject
	for _, s := range t.Subjects {
		for _, want := range texts {
			if strings.EqualFold(s.Text, want) {
				subjects = append(subjects, s)
			}
		}
	}
	if len(subjects) == 0 {
		return nil, &ConfigError{Source: string(t.ID), Err: ErrInvalidInput}
	}
	for i := range subjects {
		subjects[i].MinTier = TierLvl0
	}
	cp := *t
	cp.Subjects = subjects
	return &cp, nil
}
