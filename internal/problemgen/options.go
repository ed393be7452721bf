package problemgen

import (
	"slices"

	"github.com/abhisek/grammiz/internal/rng"
)

const (
	// maxOptions is the option count for every archetype except fill-in,
	// which offers the topic's whole fill-in form set.
	maxOptions = 4

	// maxDistractorAttempts bounds the random distractor search.
	maxDistractorAttempts = 32
)

// distinct returns candidates with duplicates and the correct answer
// removed, preserving order. Comparison is exact and case-sensitive.
func distinct(correct string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if c == "" || c == correct || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// pickDistractors shuffles the distinct candidates and keeps at most n.
func pickDistractors(correct string, candidates []string, n int, src rng.Source) []string {
	wrongs := distinct(correct, candidates)
	rng.Shuffle(src, wrongs)
	if len(wrongs) > n {
		wrongs = wrongs[:n]
	}
	return wrongs
}

// assemble places correct among wrongs in random order and returns the
// options with the correct index.
func assemble(correct string, wrongs []string, src rng.Source) ([]string, int) {
	options := make([]string, 0, len(wrongs)+1)
	options = append(options, correct)
	options = append(options, wrongs...)
	rng.Shuffle(src, options)
	return options, slices.Index(options, correct)
}
