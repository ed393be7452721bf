package grammar

import (
	"fmt"
	"slices"
	"strings"
)

var reserved = map[string]bool{
	"subject":    true,
	"verb":       true,
	"do":         true,
	"base":       true,
	"complement": true,
}

// validateTopic performs structural checks on a decoded rule table.
// Returns a combined error describing all problems found, or nil if valid.
func validateTopic(t *Topic) error {
	var errs []string

	// Agreement must cover every pronoun class and name a form every verb has.
	for _, p := range AllPronouns() {
		key, ok := t.Agreement[p]
		if !ok {
			errs = append(errs, fmt.Sprintf("agreement missing pronoun %q", p))
			continue
		}
		for i, v := range t.Verbs {
			if v.Form(key) == "" {
				errs = append(errs, fmt.Sprintf("verb %d has no form %q required by pronoun %q", i, key, p))
			}
		}
		if !slices.Contains(t.FillInForms, key) {
			errs = append(errs, fmt.Sprintf("agreement form %q for pronoun %q is not a fill-in form", key, p))
		}
		if t.RulesOfThumb[p] == "" {
			errs = append(errs, fmt.Sprintf("rules_of_thumb missing pronoun %q", p))
		}
	}

	for _, key := range t.FillInForms {
		for i, v := range t.Verbs {
			if v.Form(key) == "" {
				errs = append(errs, fmt.Sprintf("verb %d has no fill-in form %q", i, key))
			}
		}
	}
	for i, v := range t.Verbs {
		var forms []string
		for _, key := range t.FillInForms {
			f := v.Form(key)
			if slices.Contains(forms, f) {
				errs = append(errs, fmt.Sprintf("verb %d: fill-in form %q is not distinct", i, f))
			}
			forms = append(forms, f)
		}
		if len(t.AgreementForms(v)) < 2 {
			errs = append(errs, fmt.Sprintf("verb %d: agreement must use at least two distinct forms", i))
		}
	}

	for i, v := range t.Verbs {
		if v.Form("base") == "" {
			errs = append(errs, fmt.Sprintf("verb %d: missing base form", i))
		}
	}
	if t.Transform == TransformDoSupport {
		for i, v := range t.Verbs {
			if v.Form("s") == "" {
				errs = append(errs, fmt.Sprintf("verb %d: do-support topics need an s form", i))
			}
			if len(v.Complements) == 0 {
				errs = append(errs, fmt.Sprintf("verb %d: do-support topics need complements", i))
			}
		}
	}

	// Every tier needs subjects and fill-in templates.
	for _, tier := range AllTiers() {
		if len(t.SubjectsFor(tier)) == 0 {
			errs = append(errs, fmt.Sprintf("no subjects available at tier %s", tier))
		}
		if len(t.Templates.FillIn[tier]) == 0 {
			errs = append(errs, fmt.Sprintf("no fill-in templates for tier %s", tier))
		}
	}

	// Every placeholder must resolve.
	check := func(kind string, tmpls []string, needVerb bool) {
		if len(tmpls) == 0 {
			errs = append(errs, fmt.Sprintf("no %s templates", kind))
		}
		for _, tmpl := range tmpls {
			names, err := Placeholders(tmpl)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s template %q: %v", kind, tmpl, err))
				continue
			}
			if needVerb && !slices.Contains(names, "verb") {
				errs = append(errs, fmt.Sprintf("%s template %q has no {verb}", kind, tmpl))
			}
			if needVerb && !slices.Contains(names, "subject") {
				errs = append(errs, fmt.Sprintf("%s template %q has no {subject}", kind, tmpl))
			}
			for _, n := range names {
				switch n {
				case "complement":
					for i, v := range t.Verbs {
						if len(v.Complements) == 0 {
							errs = append(errs, fmt.Sprintf("%s template %q uses {complement} but verb %d has none", kind, tmpl, i))
						}
					}
				case "do", "base":
					if t.Transform != TransformDoSupport {
						errs = append(errs, fmt.Sprintf("%s template %q uses {%s} outside a do-support topic", kind, tmpl, n))
					}
				}
				if reserved[n] {
					continue
				}
				if len(t.Vocabulary[n]) == 0 {
					errs = append(errs, fmt.Sprintf("%s template %q uses unknown placeholder {%s}", kind, tmpl, n))
				}
			}
		}
	}
	check("recognition", t.Templates.Recognition, true)
	check("error_correction", t.Templates.ErrorCorrection, true)
	check("transformation", t.Templates.Transformation, true)
	check("dialogue", t.Templates.Dialogue, true)
	for _, tier := range AllTiers() {
		check("fill_in."+tier.String(), t.Templates.FillIn[tier], true)
	}

	// Transformation templates must start with the subject followed by the verb.
	for _, tmpl := range t.Templates.Transformation {
		if !strings.HasPrefix(tmpl, "{Subject} {verb} ") || !strings.HasSuffix(tmpl, ".") {
			errs = append(errs, fmt.Sprintf("transformation template %q must have the form \"{Subject} {verb} ....\"", tmpl))
		}
	}

	for _, tmpl := range t.ExtraWrong {
		names, err := Placeholders(tmpl)
		if err != nil {
			errs = append(errs, fmt.Sprintf("extra_wrong %q: %v", tmpl, err))
			continue
		}
		for _, n := range names {
			for i, v := range t.Verbs {
				if v.Form(n) == "" {
					errs = append(errs, fmt.Sprintf("extra_wrong %q: verb %d has no form %q", tmpl, i, n))
				}
			}
		}
	}

	for _, tmpl := range []string{t.Explanation, t.Hint} {
		names, err := Placeholders(tmpl)
		if err != nil {
			errs = append(errs, fmt.Sprintf("template %q: %v", tmpl, err))
			continue
		}
		for _, n := range names {
			if n != "subject" && n != "form" && n != "sentence" {
				errs = append(errs, fmt.Sprintf("template %q uses unknown placeholder {%s}", tmpl, n))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("rule table validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
