package css

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/tinct-shell/internal/colour"
)

// importantMarker excludes a declaration from colour assignment.
const importantMarker = "!important"

// alphaPattern is a plain decimal number. NaN, Inf, exponents and hex
// floats are not CSS numbers.
var alphaPattern = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// Value is a parsed colour declaration value.
// Alpha keeps its authored text so that it round-trips unchanged.
type Value struct {
	Colour    colour.RGB
	Alpha     string
	Important bool
}

// String formats the value as "rgba(r, g, b, a)", followed by the
// important marker when set.
func (v Value) String() string {
	s := fmt.Sprintf("rgba(%d, %d, %d, %s)", v.Colour.R, v.Colour.G, v.Colour.B, v.Alpha)
	if v.Important {
		s += " " + importantMarker
	}
	return s
}

// ParseValue parses rgba(), rgb() and #rrggbb values, each optionally
// followed by !important.
func ParseValue(raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	var v Value
	if strings.Contains(s, importantMarker) {
		v.Important = true
		s = strings.TrimSpace(strings.Replace(s, importantMarker, "", 1))
	}

	switch {
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid hex colour %q", s)
		}
		r, g, b := c.RGB255()
		v.Colour = colour.RGB{R: r, G: g, B: b}
		v.Alpha = "1"
		return v, nil
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunctional(v, s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunctional(v, s[len("rgb("):len(s)-1], 3)
	default:
		return Value{}, fmt.Errorf("unsupported colour value %q", s)
	}
}

func parseFunctional(v Value, args string, want int) (Value, error) {
	parts := strings.Split(args, ",")
	if len(parts) != want {
		return Value{}, fmt.Errorf("expected %d components, got %d", want, len(parts))
	}

	var channels [3]uint8
	for i := range 3 {
		p := strings.TrimSpace(parts[i])
		n, err := strconv.Atoi(p)
		if err != nil {
			return Value{}, fmt.Errorf("channel %q is not an integer", p)
		}
		if n < 0 || n > 255 {
			return Value{}, fmt.Errorf("channel %d out of range 0-255", n)
		}
		channels[i] = uint8(n)
	}
	v.Colour = colour.RGB{R: channels[0], G: channels[1], B: channels[2]}

	v.Alpha = "1"
	if want == 4 {
		a := strings.TrimSpace(parts[3])
		if !alphaPattern.MatchString(a) {
			return Value{}, fmt.Errorf("alpha %q is not a decimal number", a)
		}
		if f, err := strconv.ParseFloat(a, 64); err != nil || f > 1 {
			return Value{}, fmt.Errorf("alpha %s out of range 0-1", a)
		}
		v.Alpha = a
	}
	return v, nil
}
