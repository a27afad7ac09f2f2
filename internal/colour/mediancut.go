package colour

import (
	"fmt"
	"image"
	"slices"
)

// MedianCutExtractor implements colour extraction by median cut.
// It is deterministic: the same image always yields the same palette.
type MedianCutExtractor struct{}

// NewMedianCutExtractor creates a new MedianCutExtractor.
func NewMedianCutExtractor() *MedianCutExtractor {
	return &MedianCutExtractor{}
}

// box is a set of pixels occupying a region of RGB space.
type box struct {
	pixels []RGB
}

// widest returns the channel index (0=R, 1=G, 2=B) with the largest range and that range.
func (b box) widest() (int, int) {
	lo := [3]int{255, 255, 255}
	hi := [3]int{0, 0, 0}
	for _, p := range b.pixels {
		for ch, v := range [3]int{int(p.R), int(p.G), int(p.B)} {
			lo[ch] = min(lo[ch], v)
			hi[ch] = max(hi[ch], v)
		}
	}

	channel, spread := 0, -1
	for ch := range 3 {
		if r := hi[ch] - lo[ch]; r > spread {
			channel, spread = ch, r
		}
	}
	return channel, spread
}

// average returns the mean colour of the box.
func (b box) average() RGB {
	var r, g, bl int
	for _, p := range b.pixels {
		r += int(p.R)
		g += int(p.G)
		bl += int(p.B)
	}
	n := len(b.pixels)
	return RGB{R: uint8((r + n/2) / n), G: uint8((g + n/2) / n), B: uint8((bl + n/2) / n)}
}

func channelValue(p RGB, ch int) uint8 {
	switch ch {
	case 0:
		return p.R
	case 1:
		return p.G
	default:
		return p.B
	}
}

// Extract splits the sampled pixels into count boxes and returns their
// mean colours weighted by pixel share.
func (e *MedianCutExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if err := validateCount(count); err != nil {
		return nil, err
	}

	pixels := samplePixels(img)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	unique, weights := uniqueWithWeights(pixels)
	if count >= len(unique) {
		return newWeightedPalette(unique, weights), nil
	}

	boxes := []box{{pixels: pixels}}
	for len(boxes) < count {
		// Split the box with the widest channel range.
		target, channel, spread := -1, 0, 0
		for i, b := range boxes {
			if len(b.pixels) < 2 {
				continue
			}
			if ch, s := b.widest(); s > spread {
				target, channel, spread = i, ch, s
			}
		}
		if target < 0 {
			break
		}

		sorted := slices.Clone(boxes[target].pixels)
		slices.SortStableFunc(sorted, func(a, b RGB) int {
			return int(channelValue(a, channel)) - int(channelValue(b, channel))
		})
		mid := len(sorted) / 2

		boxes[target] = box{pixels: sorted[:mid]}
		boxes = append(boxes, box{pixels: sorted[mid:]})
	}

	colours := make([]RGB, len(boxes))
	boxWeights := make([]float64, len(boxes))
	for i, b := range boxes {
		colours[i] = b.average()
		boxWeights[i] = float64(len(b.pixels)) / float64(len(pixels))
	}
	return newWeightedPalette(colours, boxWeights), nil
}
