package assign

import "github.com/jmylchreest/tinct-shell/internal/colour"

// Pool identifies the ranking a candidate was extracted under.
type Pool int

const (
	// PoolFrequency holds colours ranked by image coverage.
	PoolFrequency Pool = iota

	// PoolLuminance holds colours ranked by lightness.
	PoolLuminance
)

// String returns the pool name.
func (p Pool) String() string {
	if p == PoolLuminance {
		return "luminance"
	}
	return "frequency"
}

// Candidate is an extracted colour tagged with its pool and position.
// Two candidates with the same RGB from different pools are distinct.
type Candidate struct {
	RGB   colour.RGB
	Pool  Pool
	Index int
}

// Pools holds the two ordered candidate sequences for one assignment run.
type Pools struct {
	Frequency []Candidate
	Luminance []Candidate
}

// NewPools tags the extracted colours with their pool and index.
func NewPools(frequency, luminance []colour.RGB) Pools {
	return Pools{
		Frequency: tag(frequency, PoolFrequency),
		Luminance: tag(luminance, PoolLuminance),
	}
}

func tag(colours []colour.RGB, pool Pool) []Candidate {
	out := make([]Candidate, len(colours))
	for i, c := range colours {
		out[i] = Candidate{RGB: c, Pool: pool, Index: i}
	}
	return out
}

// Len returns the total number of candidates across both pools.
func (p Pools) Len() int {
	return len(p.Frequency) + len(p.Luminance)
}
