// Package rollout provides the random source used to roll probabilistic template rules.
// Randomness is always an explicit, seeded value so that a resolution is a pure function
// of (template, base ruleset, source state). This ensures:
//   - Same seed and same template always give the same ruleset (deterministic)
//   - A published week can be re-rendered after a restart without being stored
//   - Tests can substitute a scripted source to pin edge cases
package rollout

import (
	"errors"
	"math/rand/v2"
)

// RollRange is the exclusive upper bound of a roll. Chances are expressed in parts per
// thousand, so a roll is uniform in [0, 1000).
const RollRange = 1000

// seedStream selects the PCG stream. It must never change: doing so would alter every
// previously published weekly ruleset.
const seedStream uint64 = 0x9e3779b97f4a7c15

// ErrInvalidChance is returned when a chance is not in the valid range (0-1000).
var ErrInvalidChance = errors.New("chance must be between 0 and 1000")

// Source is a random number source. *math/rand/v2.Rand satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewSource returns a PCG-backed source seeded with seed.
// The PCG output sequence is fixed by the math/rand/v2 compatibility promise, so a seed
// reproduces the same rolls across Go releases.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedStream))
}

// Roll draws one roll in [0, RollRange) from src.
func Roll(src Source) int {
	return src.IntN(RollRange)
}

// ForcesAllowed reports whether roll force-allows a technique with the given chance.
//
// Algorithm:
//  1. roll is uniform in [0, 1000)
//  2. the technique is force-allowed iff chance < roll
//
// Special cases:
//   - chance=1000: never forces (roll is at most 999)
//   - chance=0: forces on every roll except 0
//
// A higher chance therefore keeps the base value more often. This inversion is what
// published weeks were rolled with and must be preserved.
func ForcesAllowed(chance, roll int) (bool, error) {
	if chance < 0 || chance > RollRange {
		return false, ErrInvalidChance
	}
	return chance < roll, nil
}
