package game

import "math/rand"

// Dice is the engine's only source of nondeterminism besides deck
// shuffles. Injecting it keeps every scenario replayable: production uses a
// seeded source, tests script exact faces.
type Dice interface {
	// Roll returns one d6 face in [1, 6].
	Roll() int
}

type randDice struct {
	rng *rand.Rand
}

func (d *randDice) Roll() int { return d.rng.Intn(6) + 1 }

// NewDice returns a pseudo-random d6 source over the given generator.
func NewDice(rng *rand.Rand) Dice { return &randDice{rng: rng} }
