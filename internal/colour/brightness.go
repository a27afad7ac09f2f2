package colour

import (
	"fmt"
	"math"
)

// Mode is the display mode a theme is generated for.
type Mode int

const (
	// ModeLight targets a light shell theme.
	ModeLight Mode = iota

	// ModeDark targets a dark shell theme.
	ModeDark
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDark:
		return "dark"
	case ModeLight:
		return "light"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "dark" or "light" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "dark":
		return ModeDark, nil
	case "light":
		return ModeLight, nil
	default:
		return ModeLight, fmt.Errorf("invalid mode: %s (valid: dark, light)", s)
	}
}

// CompatibilityThreshold is the brightness distance used by Compatible.
const CompatibilityThreshold = 0.15

// Darkness returns a grayscale darkness score in [0, 1], higher is darker.
// Uses the BT.601 luma weights.
func Darkness(c RGB) float64 {
	return 1 - (0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B))/255
}

// Lightness is the complement of Darkness.
func Lightness(c RGB) float64 {
	return 1 - Darkness(c)
}

// Compatible reports whether candidate may replace pattern under mode.
//
// Dark mode requires the two darkness scores to be within the threshold.
// Light mode requires the lightness scores to be at least the threshold apart.
func Compatible(candidate, pattern RGB, mode Mode) bool {
	if mode == ModeDark {
		return math.Abs(Darkness(candidate)-Darkness(pattern)) <= CompatibilityThreshold
	}
	return math.Abs(Lightness(candidate)-Lightness(pattern)) >= CompatibilityThreshold
}
