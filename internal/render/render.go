// Package render substitutes resolved theme variables into a CSS template.
package render

import (
	"math"
	"strings"

	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/css"
)

// DefaultFontMarker selects the variables darkened in light mode.
const DefaultFontMarker = "font"

// Renderer replaces var(--name) placeholders with literal colours.
type Renderer struct {
	mode       colour.Mode
	fontMarker string
}

// New creates a Renderer for the given mode. An empty fontMarker uses
// DefaultFontMarker.
func New(mode colour.Mode, fontMarker string) *Renderer {
	if fontMarker == "" {
		fontMarker = DefaultFontMarker
	}
	return &Renderer{mode: mode, fontMarker: fontMarker}
}

// Render returns template with every var(name) of entries substituted.
// Important markers are dropped. In light mode, variables whose name
// contains the font marker are darkened with DarkenFont.
func (r *Renderer) Render(template string, entries []css.Entry) string {
	pairs := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		pairs = append(pairs, "var("+e.Name+")", r.Literal(e).String())
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Literal returns the value written into the template for e.
func (r *Renderer) Literal(e css.Entry) css.Value {
	v := e.Value
	v.Important = false
	if r.mode == colour.ModeLight && strings.Contains(e.Name, r.fontMarker) {
		v.Colour = DarkenFont(v.Colour)
	}
	return v
}

// DarkenFont scales each channel by 0.45 with a floor of 45.
func DarkenFont(c colour.RGB) colour.RGB {
	darken := func(ch uint8) uint8 {
		return uint8(max(45, math.Round(float64(ch)*0.45)))
	}
	return colour.RGB{R: darken(c.R), G: darken(c.G), B: darken(c.B)}
}
