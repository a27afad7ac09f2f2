// Package colour provides colour types, brightness metrics and palette extraction.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"slices"
)

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// SortOrder selects how an extracted palette is ranked.
type SortOrder string

const (
	// SortFrequency ranks colours by how much of the image they cover, most first.
	SortFrequency SortOrder = "frequency"

	// SortLuminance ranks colours by lightness, darkest first.
	SortLuminance SortOrder = "luminance"
)

// ParseSortOrder converts a flag value into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortFrequency, SortLuminance:
		return SortOrder(s), nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (valid: frequency, luminance)", s)
	}
}

// Palette represents a collection of colours extracted from an image.
// Weights, when present, holds each colour's share of the sampled pixels.
type Palette struct {
	Colors  []color.Color
	Weights []float64
}

// NewPalette creates a new Palette with the given colours.
func NewPalette(colors []color.Color) *Palette {
	return &Palette{
		Colors: colors,
	}
}

// NewPaletteWithWeights creates a Palette whose colours carry relative weights.
// Weights are dropped if their count does not match the colours.
func NewPaletteWithWeights(colors []color.Color, weights []float64) *Palette {
	p := NewPalette(colors)
	if len(weights) == len(colors) {
		p.Weights = weights
	}
	return p
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// ToRGBSlice converts the palette colours to RGB structs.
func (p *Palette) ToRGBSlice() []RGB {
	rgbColors := make([]RGB, len(p.Colors))
	for i, c := range p.Colors {
		rgbColors[i] = ToRGB(c)
	}
	return rgbColors
}

// ToHex converts the palette colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		hexColors[i] = ToRGB(c).Hex()
	}
	return hexColors
}

// Sorted returns the palette as RGB values ranked by the given order.
// Ties keep extraction order. A palette without weights keeps extraction
// order under SortFrequency.
func (p *Palette) Sorted(order SortOrder) []RGB {
	type ranked struct {
		rgb    RGB
		weight float64
	}

	items := make([]ranked, len(p.Colors))
	for i, c := range p.Colors {
		items[i].rgb = ToRGB(c)
		if p.Weights != nil {
			items[i].weight = p.Weights[i]
		}
	}

	switch order {
	case SortLuminance:
		slices.SortStableFunc(items, func(a, b ranked) int {
			la, lb := Lightness(a.rgb), Lightness(b.rgb)
			switch {
			case la < lb:
				return -1
			case la > lb:
				return 1
			}
			return 0
		})
	default:
		slices.SortStableFunc(items, func(a, b ranked) int {
			switch {
			case a.weight > b.weight:
				return -1
			case a.weight < b.weight:
				return 1
			}
			return 0
		})
	}

	out := make([]RGB, len(items))
	for i, it := range items {
		out[i] = it.rgb
	}
	return out
}

// ColorJSON represents a colour in JSON output format.
type ColorJSON struct {
	Hex    string  `json:"hex"`
	RGB    RGB     `json:"rgb"`
	Weight float64 `json:"weight,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int         `json:"count"`
	Colors []ColorJSON `json:"colors"`
}

// ToJSON converts the palette to JSON format.
func (p *Palette) ToJSON() ([]byte, error) {
	colors := make([]ColorJSON, len(p.Colors))
	for i, c := range p.Colors {
		rgb := ToRGB(c)
		colors[i] = ColorJSON{
			Hex: rgb.Hex(),
			RGB: rgb,
		}
		if p.Weights != nil {
			colors[i].Weight = p.Weights[i]
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:  len(p.Colors),
		Colors: colors,
	}, "", "  ")
}
