// Package assign maps theme variables onto colours extracted from an image.
//
// Variables sharing an identical pattern colour form a value group and are
// resolved together. Each group takes one candidate from the luminance pool
// when a compatible unused one exists, otherwise from the frequency pool,
// otherwise any unused candidate at all. A candidate is never handed to two
// groups in the same run.
package assign

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinct-shell/internal/colour"
)

// ErrExhaustedPalette is returned when a value group needs a colour and
// every candidate in both pools has already been picked.
var ErrExhaustedPalette = errors.New("palette exhausted")

// Variable is a named theme slot and its pattern colour.
type Variable struct {
	Name      string
	Colour    colour.RGB
	Alpha     string
	Important bool
}

// Assignment is the resolved colour for one variable.
// Pinned marks important variables that kept their pattern colour.
type Assignment struct {
	Name   string
	Colour colour.RGB
	Alpha  string
	Pinned bool
}

// Stage records which candidate set a group was resolved from.
type Stage int

const (
	// StageLuminance means a compatible luminance candidate was used.
	StageLuminance Stage = iota
	// StageFrequency means a compatible frequency candidate was used.
	StageFrequency
	// StageFallback means compatibility was ignored.
	StageFallback
)

func (s Stage) String() string {
	switch s {
	case StageLuminance:
		return "luminance"
	case StageFrequency:
		return "frequency"
	default:
		return "fallback"
	}
}

// Engine resolves variables against candidate pools.
type Engine struct {
	strategy Strategy
	logger   hclog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-group debug output.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine using the given selection strategy.
func New(strategy Strategy, opts ...Option) *Engine {
	e := &Engine{
		strategy: strategy,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// groupKey identifies a value group.
type groupKey struct {
	rgb   colour.RGB
	alpha string
}

// run is the state of a single assignment pass. It is never reused.
type run struct {
	mode     colour.Mode
	pools    Pools
	consumed map[string]bool
	picked   map[Candidate]bool
}

// Assign resolves every variable. The result has one entry per variable in
// input order. Important variables keep their pattern colour.
func (e *Engine) Assign(vars []Variable, mode colour.Mode, pools Pools) ([]Assignment, error) {
	groups := make(map[groupKey][]int)
	for i, v := range vars {
		if v.Important {
			continue
		}
		k := groupKey{rgb: v.Colour, alpha: v.Alpha}
		groups[k] = append(groups[k], i)
	}

	r := &run{
		mode:     mode,
		pools:    pools,
		consumed: make(map[string]bool, len(vars)),
		picked:   make(map[Candidate]bool, pools.Len()),
	}

	out := make([]Assignment, len(vars))
	for i, v := range vars {
		if v.Important {
			out[i] = Assignment{Name: v.Name, Colour: v.Colour, Alpha: v.Alpha, Pinned: true}
			continue
		}
		if r.consumed[v.Name] {
			continue
		}

		candidates, stage := r.candidates(v.Colour)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: no unused colour left for %s (%s)", ErrExhaustedPalette, v.Name, v.Colour.Hex())
		}
		pick := e.strategy.PickOne(candidates)
		r.picked[pick] = true

		members := groups[groupKey{rgb: v.Colour, alpha: v.Alpha}]
		for _, m := range members {
			out[m] = Assignment{Name: vars[m].Name, Colour: pick.RGB, Alpha: vars[m].Alpha}
			r.consumed[vars[m].Name] = true
		}

		e.logger.Debug("resolved value group",
			"representative", v.Name,
			"pattern", v.Colour.Hex(),
			"members", len(members),
			"pick", pick.RGB.Hex(),
			"pool", pick.Pool.String(),
			"stage", stage.String(),
			"offered", len(candidates))
	}

	return out, nil
}

// candidates returns the first non-empty candidate set for pattern.
func (r *run) candidates(pattern colour.RGB) ([]Candidate, Stage) {
	if c := r.compatible(r.pools.Luminance, pattern); len(c) > 0 {
		return c, StageLuminance
	}
	if c := r.compatible(r.pools.Frequency, pattern); len(c) > 0 {
		return c, StageFrequency
	}

	var all []Candidate
	all = append(all, r.unpicked(r.pools.Frequency)...)
	all = append(all, r.unpicked(r.pools.Luminance)...)
	return all, StageFallback
}

func (r *run) compatible(pool []Candidate, pattern colour.RGB) []Candidate {
	var out []Candidate
	for _, c := range pool {
		if !r.picked[c] && colour.Compatible(c.RGB, pattern, r.mode) {
			out = append(out, c)
		}
	}
	return out
}

func (r *run) unpicked(pool []Candidate) []Candidate {
	var out []Candidate
	for _, c := range pool {
		if !r.picked[c] {
			out = append(out, c)
		}
	}
	return out
}
