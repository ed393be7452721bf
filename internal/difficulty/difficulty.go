// Package difficulty maps a learner's running performance to a tier and
// picks the archetype of the next question by weighted random choice.
package difficulty

import (
	"errors"
	"fmt"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
)

// Progression thresholds.
const (
	MediumAfter = 5  // answered questions before medium is possible
	HardAfter   = 15 // answered questions before hard is possible

	MediumAccuracy = 0.75 // accuracy needed to reach medium
	HardAccuracy   = 0.85 // accuracy needed to reach hard
	HoldAccuracy   = 0.70 // accuracy needed to stay at medium after HardAfter
)

// ErrInvalidWeights is returned for negative or all-zero weights.
var ErrInvalidWeights = errors.New("invalid archetype weights")

// Weight is the relative likelihood of an archetype.
type Weight struct {
	Archetype problemgen.Archetype
	Weight    float64
}

// DefaultWeights returns the archetype weights per tier, in the stable
// order of problemgen.AllArchetypes.
func DefaultWeights() map[grammar.Tier][]Weight {
	w := func(fillIn, recognition, errorCorrection, transformation, context float64) []Weight {
		return []Weight{
			{problemgen.ArchetypeFillIn, fillIn},
			{problemgen.ArchetypeRecognition, recognition},
			{problemgen.ArchetypeErrorCorrection, errorCorrection},
			{problemgen.ArchetypeTransformation, transformation},
			{problemgen.ArchetypeContext, context},
		}
	}
	return map[grammar.Tier][]Weight{
		grammar.TierLvl0:   w(4, 1, 0, 0, 0),
		grammar.TierEasy:   w(4, 3, 1, 1, 1),
		grammar.TierMedium: w(2.5, 2, 2, 2, 1.5),
		grammar.TierHard:   w(1.5, 1, 2.5, 2.5, 2.5),
	}
}

// TierFor derives the tier from the number of answered questions and the
// number answered correctly. It never returns TierLvl0.
func TierFor(answered, correct int) grammar.Tier {
	if answered <= 0 {
		return grammar.TierEasy
	}
	acc := float64(correct) / float64(answered)
	switch {
	case answered >= HardAfter && acc >= HardAccuracy:
		return grammar.TierHard
	case answered >= HardAfter && acc >= HoldAccuracy:
		return grammar.TierMedium
	case answered >= MediumAfter && answered < HardAfter && acc >= MediumAccuracy:
		return grammar.TierMedium
	default:
		return grammar.TierEasy
	}
}

// Selector resolves the tier for the next question and picks its archetype.
type Selector struct {
	weights  map[grammar.Tier][]Weight
	override *grammar.Tier
}

// Option configures a Selector.
type Option func(*Selector)

// WithWeights replaces the weights of the given tiers.
func WithWeights(weights map[grammar.Tier][]Weight) Option {
	return func(s *Selector) {
		for tier, ws := range weights {
			s.weights[tier] = ws
		}
	}
}

// WithOverride pins every question to tier.
func WithOverride(tier grammar.Tier) Option {
	return func(s *Selector) {
		s.override = &tier
	}
}

// NewSelector returns a Selector with the default weights and opts applied.
func NewSelector(opts ...Option) (*Selector, error) {
	s := &Selector{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	for tier, ws := range s.weights {
		if len(ws) == 0 {
			return nil, fmt.Errorf("%w: tier %s has no archetypes", ErrInvalidWeights, tier)
		}
		total := 0.0
		for _, w := range ws {
			if w.Weight < 0 {
				return nil, fmt.Errorf("%w: tier %s archetype %s has weight %v", ErrInvalidWeights, tier, w.Archetype, w.Weight)
			}
			if _, err := problemgen.ParseArchetype(string(w.Archetype)); err != nil {
				return nil, err
			}
			total += w.Weight
		}
		if total == 0 {
			return nil, fmt.Errorf("%w: tier %s weights sum to zero", ErrInvalidWeights, tier)
		}
	}
	return s, nil
}

// Override returns the pinned tier, if any.
func (s *Selector) Override() (grammar.Tier, bool) {
	if s.override == nil {
		return 0, false
	}
	return *s.override, true
}

// SetOverride pins the tier.
func (s *Selector) SetOverride(tier grammar.Tier) { s.override = &tier }

// ClearOverride returns to automatic progression.
func (s *Selector) ClearOverride() { s.override = nil }

// Tier returns the override if set, otherwise TierFor(answered, correct).
func (s *Selector) Tier(answered, correct int) grammar.Tier {
	if s.override != nil {
		return *s.override
	}
	return TierFor(answered, correct)
}

// Pick chooses an archetype for tier using the cumulative weights. When
// rounding leaves the draw past every bucket, the first archetype is used.
func (s *Selector) Pick(tier grammar.Tier, src rng.Source) problemgen.Archetype {
	ws := s.weights[tier]
	if len(ws) == 0 {
		ws = s.weights[grammar.TierEasy]
	}
	total := 0.0
	for _, w := range ws {
		total += w.Weight
	}
	r := src.Float64() * total
	for _, w := range ws {
		if w.Weight == 0 {
			continue
		}
		if r < w.Weight {
			return w.Archetype
		}
		r -= w.Weight
	}
	return ws[0].Archetype
}
