package colour

import (
	"fmt"
	"image"
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract extracts a colour palette from an image.
	// The count parameter specifies the number of colours to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans uses k-means clustering for colour extraction.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmMedianCut recursively splits the colour space at the median
	// of its widest channel.
	AlgorithmMedianCut Algorithm = "mediancut"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmMedianCut,
		AlgorithmKMeans,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// NewExtractor creates a new Extractor based on the specified algorithm.
// A non-zero seed makes k-means initialisation reproducible.
func NewExtractor(alg Algorithm, seed int64) (Extractor, error) {
	switch alg {
	case AlgorithmKMeans:
		return NewKMeansExtractor(seed), nil
	case AlgorithmMedianCut:
		return NewMedianCutExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// validateCount checks the requested palette size.
func validateCount(count int) error {
	if count < 1 {
		return fmt.Errorf("color count must be at least 1, got %d", count)
	}
	if count > 256 {
		return fmt.Errorf("color count too large: %d (maximum: 256)", count)
	}
	return nil
}

// uniqueWithWeights returns the distinct colours of pixels in first-seen
// order, weighted by how often each occurs.
func uniqueWithWeights(pixels []RGB) ([]RGB, []float64) {
	index := make(map[RGB]int)
	var unique []RGB
	var counts []float64
	for _, p := range pixels {
		i, ok := index[p]
		if !ok {
			i = len(unique)
			index[p] = i
			unique = append(unique, p)
			counts = append(counts, 0)
		}
		counts[i]++
	}

	total := float64(len(pixels))
	for i := range counts {
		counts[i] /= total
	}
	return unique, counts
}
