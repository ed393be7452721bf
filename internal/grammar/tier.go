package grammar

import "fmt"

// Tier represents a difficulty tier.
type Tier int

const (
	TierLvl0   Tier = iota // Introductory: pronoun subjects, shortest sentences
	TierEasy               // Pronoun subjects, simple complements
	TierMedium             // Noun-phrase subjects join the pool
	TierHard               // Longer sentences with time and place adverbials
)

// AllTiers returns all tiers in ascending order.
func AllTiers() []Tier {
	return []Tier{TierLvl0, TierEasy, TierMedium, TierHard}
}

// String returns the rule-table key for the tier.
func (t Tier) String() string {
	switch t {
	case TierLvl0:
		return "lvl0"
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Label returns a human-readable name for the tier.
func (t Tier) Label() string {
	switch t {
	case TierLvl0:
		return "Warm-up"
	case TierEasy:
		return "Easy"
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// ParseTier converts a rule-table key into a Tier.
func ParseTier(s string) (Tier, error) {
	for _, t := range AllTiers() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: tier %q", ErrInvalidInput, s)
}
