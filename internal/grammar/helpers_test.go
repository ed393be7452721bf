package grammar

import "github.com/abhisek/grammiz/internal/rng"

func rngSeq(values ...float64) rng.Source {
	return rng.NewSequence(values...)
}
