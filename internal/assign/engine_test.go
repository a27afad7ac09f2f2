package assign

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jmylchreest/tinct-shell/internal/colour"
)

func rgb(r, g, b uint8) colour.RGB { return colour.RGB{R: r, G: g, B: b} }

func TestAssignNearBlackDarkPrefersLuminancePool(t *testing.T) {
	vars := []Variable{{Name: "--bg", Colour: rgb(10, 10, 10), Alpha: "0.9"}}
	pools := NewPools(
		[]colour.RGB{rgb(8, 8, 8)},
		[]colour.RGB{rgb(250, 250, 250), rgb(5, 5, 5)},
	)

	for _, strategy := range []Strategy{Deterministic{}, NewRandom(7)} {
		t.Run(strategy.Name(), func(t *testing.T) {
			got, err := New(strategy).Assign(vars, colour.ModeDark, pools)
			if err != nil {
				t.Fatalf("Assign() error: %v", err)
			}
			if got[0].Colour != rgb(5, 5, 5) {
				t.Errorf("Expected luminance candidate (5,5,5), got %v", got[0].Colour)
			}
			if got[0].Alpha != "0.9" {
				t.Errorf("Expected alpha 0.9, got %s", got[0].Alpha)
			}
		})
	}
}

func TestAssignLightModeFallbacks(t *testing.T) {
	pattern := []Variable{{Name: "--bg", Colour: rgb(240, 240, 240), Alpha: "1.0"}}
	nearWhite := []colour.RGB{rgb(250, 250, 250), rgb(230, 230, 230)}

	t.Run("falls back to frequency pool", func(t *testing.T) {
		pools := NewPools([]colour.RGB{rgb(245, 245, 245), rgb(20, 20, 20)}, nearWhite)
		got, err := New(Deterministic{}).Assign(pattern, colour.ModeLight, pools)
		if err != nil {
			t.Fatalf("Assign() error: %v", err)
		}
		if got[0].Colour != rgb(20, 20, 20) {
			t.Errorf("Expected frequency candidate (20,20,20), got %v", got[0].Colour)
		}
	})

	t.Run("falls back to union", func(t *testing.T) {
		pools := NewPools([]colour.RGB{rgb(235, 235, 235)}, nearWhite)
		got, err := New(Deterministic{}).Assign(pattern, colour.ModeLight, pools)
		if err != nil {
			t.Fatalf("Assign() error: %v", err)
		}
		if got[0].Colour != rgb(235, 235, 235) {
			t.Errorf("Expected first union member (235,235,235), got %v", got[0].Colour)
		}
	})

	t.Run("exhausted when both pools are picked", func(t *testing.T) {
		vars := []Variable{
			{Name: "--a", Colour: rgb(240, 240, 240), Alpha: "1"},
			{Name: "--b", Colour: rgb(241, 241, 241), Alpha: "1"},
		}
		pools := NewPools(nil, []colour.RGB{rgb(250, 250, 250)})
		_, err := New(Deterministic{}).Assign(vars, colour.ModeLight, pools)
		if !errors.Is(err, ErrExhaustedPalette) {
			t.Fatalf("Expected ErrExhaustedPalette, got %v", err)
		}
	})

	t.Run("exhausted with empty pools", func(t *testing.T) {
		_, err := New(NewRandom(1)).Assign(pattern, colour.ModeLight, Pools{})
		if !errors.Is(err, ErrExhaustedPalette) {
			t.Fatalf("Expected ErrExhaustedPalette, got %v", err)
		}
	})
}

func TestAssignValueGroups(t *testing.T) {
	vars := []Variable{
		{Name: "--panel-bg", Colour: rgb(30, 30, 30), Alpha: "1"},
		{Name: "--button-fg", Colour: rgb(200, 200, 200), Alpha: "1"},
		{Name: "--popup-bg", Colour: rgb(30, 30, 30), Alpha: "1"},
		{Name: "--menu-bg", Colour: rgb(30, 30, 30), Alpha: "0.5"},
		{Name: "--font-color", Colour: rgb(200, 200, 200), Alpha: "1"},
	}
	pools := NewPools(
		[]colour.RGB{rgb(40, 40, 40), rgb(190, 190, 190), rgb(35, 35, 35)},
		[]colour.RGB{rgb(210, 210, 210), rgb(25, 25, 25), rgb(28, 28, 28), rgb(180, 180, 180)},
	)

	got, err := New(Deterministic{}).Assign(vars, colour.ModeDark, pools)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	if len(got) != len(vars) {
		t.Fatalf("Expected %d assignments, got %d", len(vars), len(got))
	}

	byName := make(map[string]Assignment)
	for i, a := range got {
		if a.Name != vars[i].Name {
			t.Errorf("Assignment %d name = %s, want %s", i, a.Name, vars[i].Name)
		}
		byName[a.Name] = a
	}

	if byName["--panel-bg"].Colour != byName["--popup-bg"].Colour {
		t.Error("Variables sharing a pattern received different colours")
	}
	if byName["--button-fg"].Colour != byName["--font-color"].Colour {
		t.Error("Variables sharing a pattern received different colours")
	}
	if byName["--menu-bg"].Colour == byName["--panel-bg"].Colour {
		t.Error("Different alpha should form a separate value group")
	}
	if byName["--menu-bg"].Alpha != "0.5" {
		t.Errorf("Expected alpha 0.5 preserved, got %s", byName["--menu-bg"].Alpha)
	}
}

func TestAssignImportantPassesThrough(t *testing.T) {
	vars := []Variable{
		{Name: "--accent", Colour: rgb(53, 132, 228), Alpha: "1", Important: true},
		{Name: "--bg", Colour: rgb(53, 132, 228), Alpha: "1"},
	}
	pools := NewPools([]colour.RGB{rgb(1, 2, 3)}, nil)

	got, err := New(Deterministic{}).Assign(vars, colour.ModeDark, pools)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	if !got[0].Pinned || got[0].Colour != rgb(53, 132, 228) {
		t.Errorf("Important variable changed: %+v", got[0])
	}
	if got[1].Pinned || got[1].Colour != rgb(1, 2, 3) {
		t.Errorf("Unexpected assignment for --bg: %+v", got[1])
	}
}

// manyGroups builds n variables with distinct patterns and pools with enough colours.
func manyGroups(n int) ([]Variable, Pools) {
	vars := make([]Variable, 0, n*2)
	for i := range n {
		c := rgb(uint8(i*9), uint8(i*7), uint8(i*5))
		vars = append(vars,
			Variable{Name: fmt.Sprintf("--slot-%d", i), Colour: c, Alpha: "1"},
			Variable{Name: fmt.Sprintf("--slot-%d-alt", i), Colour: c, Alpha: "0.8"},
		)
	}

	freq := make([]colour.RGB, n+3)
	for i := range freq {
		freq[i] = rgb(uint8(i*11), uint8(255-i*11), uint8(i*3))
	}
	lum := make([]colour.RGB, n+8)
	for i := range lum {
		v := uint8(255 - i*10)
		lum[i] = rgb(v, v, v)
	}
	return vars, NewPools(freq, lum)
}

func TestAssignNoReuse(t *testing.T) {
	vars, pools := manyGroups(10)

	for _, mode := range []colour.Mode{colour.ModeDark, colour.ModeLight} {
		for _, strategy := range []Strategy{Deterministic{}, NewRandom(99)} {
			t.Run(mode.String()+"/"+strategy.Name(), func(t *testing.T) {
				got, err := New(strategy).Assign(vars, mode, pools)
				if err != nil {
					t.Fatalf("Assign() error: %v", err)
				}

				groupColour := make(map[string]colour.RGB)
				for i, a := range got {
					if a.Alpha != vars[i].Alpha {
						t.Errorf("%s alpha = %s, want %s", a.Name, a.Alpha, vars[i].Alpha)
					}
					key := fmt.Sprintf("%v|%s", vars[i].Colour, vars[i].Alpha)
					groupColour[key] = a.Colour
				}

				// Distinct pool colours, so distinct groups must differ.
				seen := make(map[colour.RGB]string)
				for key, c := range groupColour {
					if other, ok := seen[c]; ok {
						t.Errorf("Groups %s and %s share colour %v", key, other, c)
					}
					seen[c] = key
				}
			})
		}
	}
}

func TestAssignDeterministicReproducible(t *testing.T) {
	vars, pools := manyGroups(8)

	first, err := New(Deterministic{}).Assign(vars, colour.ModeDark, pools)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	for range 5 {
		again, err := New(Deterministic{}).Assign(vars, colour.ModeDark, pools)
		if err != nil {
			t.Fatalf("Assign() error: %v", err)
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("Run differs at %s: %v vs %v", first[i].Name, first[i].Colour, again[i].Colour)
			}
		}
	}
}

func TestAssignRandomSeeded(t *testing.T) {
	vars, pools := manyGroups(6)

	a, err := New(NewRandom(1234)).Assign(vars, colour.ModeLight, pools)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	b, err := New(NewRandom(1234)).Assign(vars, colour.ModeLight, pools)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Same seed gave different results at %s", a[i].Name)
		}
	}
}

func TestRandomPicksFromOfferedSet(t *testing.T) {
	r := NewRandom(5)
	offered := NewPools([]colour.RGB{rgb(1, 1, 1), rgb(2, 2, 2), rgb(3, 3, 3)}, nil).Frequency
	for range 50 {
		got := r.PickOne(offered)
		if got.Pool != PoolFrequency || got.Index < 0 || got.Index > 2 {
			t.Fatalf("PickOne returned candidate outside the offered set: %+v", got)
		}
	}
}

func TestCandidatesIgnorePicked(t *testing.T) {
	pools := NewPools(nil, []colour.RGB{rgb(5, 5, 5), rgb(6, 6, 6)})
	r := &run{
		mode:     colour.ModeDark,
		pools:    pools,
		consumed: map[string]bool{},
		picked:   map[Candidate]bool{pools.Luminance[0]: true},
	}

	got, stage := r.candidates(rgb(10, 10, 10))
	if stage != StageLuminance {
		t.Errorf("Expected luminance stage, got %s", stage)
	}
	if len(got) != 1 || got[0] != pools.Luminance[1] {
		t.Errorf("Expected only the unpicked candidate, got %+v", got)
	}
}
