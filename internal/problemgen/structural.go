package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/grammiz/internal/grammar"
)

// StructuralValidator checks that required fields are present and that
// the option list has a usable shape.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}
	if q.Prompt == "" {
		return fail("prompt is empty")
	}
	if q.Instruction == "" {
		return fail("instruction is empty")
	}
	if len(q.Options) < 2 || len(q.Options) > maxOptions {
		return fail("expected 2-%d options, got %d", maxOptions, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fail("correct index %d out of range", q.CorrectIndex)
	}
	if q.Meta.Explanation == "" {
		return fail("explanation is empty")
	}
	switch q.Meta.Archetype {
	case ArchetypeFillIn:
		if strings.Count(q.Prompt, grammar.BlankMarker) != 1 {
			return fail("fill-in prompt must have exactly one blank")
		}
	case ArchetypeContext:
		n := strings.Count(q.Prompt, grammar.BlankMarker)
		if n == 0 || n != len(q.Meta.Blanks) {
			return fail("dialogue has %d blanks but %d tokens", n, len(q.Meta.Blanks))
		}
	case ArchetypeErrorCorrection:
		if strings.Count(q.Prompt, EmphasisMarker) != 2 {
			return fail("error-correction prompt must flag exactly one word")
		}
	}
	return nil
}

// OptionsValidator checks that options are non-empty and distinct under
// exact, case-sensitive comparison.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *ValidationError {
	seen := make(map[string]bool, len(q.Options))
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %d is empty", i)}
		}
		if seen[o] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("duplicate option %q", o)}
		}
		seen[o] = true
	}
	return nil
}

// AgreementValidator checks that the correct option carries the form the
// question hinges on, and for dialogues that the option matches the
// blanked tokens.
type AgreementValidator struct{}

func (v *AgreementValidator) Name() string { return "agreement" }

func (v *AgreementValidator) Validate(q *Question) *ValidationError {
	answer := q.Answer()
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}
	switch q.Meta.Archetype {
	case ArchetypeFillIn:
		if answer != q.Meta.CorrectForm {
			return fail(fmt.Sprintf("correct option %q is not the agreeing form %q", answer, q.Meta.CorrectForm))
		}
	case ArchetypeContext:
		if answer != strings.Join(q.Meta.Blanks, DialogueSeparator) {
			return fail(fmt.Sprintf("correct option %q does not match the blanked tokens", answer))
		}
	default:
		words := strings.Fields(strings.ToLower(strings.Trim(answer, ".?")))
		for _, w := range words {
			if strings.Trim(w, `",.?`) == strings.ToLower(q.Meta.CorrectForm) {
				return nil
			}
		}
		return fail(fmt.Sprintf("correct option %q does not use %q", answer, q.Meta.CorrectForm))
	}
	return nil
}
