package assign

import (
	"math/rand"
	"time"
)

// Strategy chooses one candidate from a non-empty, pool-ordered set.
type Strategy interface {
	Name() string
	PickOne(candidates []Candidate) Candidate
}

// Deterministic always takes the first candidate.
type Deterministic struct{}

// Name implements Strategy.
func (Deterministic) Name() string { return "deterministic" }

// PickOne implements Strategy.
func (Deterministic) PickOne(candidates []Candidate) Candidate {
	return candidates[0]
}

// Random picks uniformly among the candidates.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random strategy. A zero seed uses the clock.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Name implements Strategy.
func (r *Random) Name() string { return "random" }

// PickOne implements Strategy.
func (r *Random) PickOne(candidates []Candidate) Candidate {
	return candidates[r.rng.Intn(len(candidates))]
}
