// Package picker chooses uniformly among draw candidates.
package picker

import (
	"math/rand/v2"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_picker.go github.com/KirkDiggler/secretsanta/internal/picker Picker

// Picker returns a uniformly distributed index in [0, n)
type Picker interface {
	IntN(n int) int
}

// Config for the random picker
type Config struct {
	// Optional seed for reproducible draws in tests
	Seed uint64
}

// Random picks with a PCG generator. It is not safe for concurrent use.
type Random struct {
	random *rand.Rand
}

// New creates a random picker. Without a seed it draws from the runtime's
// randomly seeded source.
func New(cfg *Config) *Random {
	var seed1, seed2 uint64
	if cfg != nil && cfg.Seed != 0 {
		seed1, seed2 = cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15
	} else {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}

	return &Random{
		random: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// IntN returns an index in [0, n). It panics when n <= 0.
func (r *Random) IntN(n int) int {
	return r.random.IntN(n)
}
