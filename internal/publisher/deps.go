package publisher

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// IDGenerator interface for testable ID generation
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator implements IDGenerator using UUID v4
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string { return uuid.NewString() }

// SeedGenerator picks seeds for custom rulesets submitted without one.
type SeedGenerator interface {
	Seed() uint64
}

// RandomSeeds draws seeds from the runtime's randomly seeded generator.
type RandomSeeds struct{}

func (RandomSeeds) Seed() uint64 { return rand.Uint64() }
