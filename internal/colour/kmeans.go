package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"
)

// KMeansExtractor implements colour extraction using k-means clustering.
type KMeansExtractor struct {
	maxIterations int
	convergence   float64
	rng           *rand.Rand
}

// NewKMeansExtractor creates a KMeansExtractor. A zero seed uses the clock.
func NewKMeansExtractor(seed int64) *KMeansExtractor {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &KMeansExtractor{
		maxIterations: 20,
		convergence:   2.0,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Extract extracts colours from an image using k-means clustering.
// Returns colours with their relative weights (cluster sizes).
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
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

	// Fewer distinct colours than requested: every one of them is a cluster.
	unique, weights := uniqueWithWeights(pixels)
	if count >= len(unique) {
		return newWeightedPalette(unique, weights), nil
	}

	points := make([]point3D, len(pixels))
	for i, p := range pixels {
		points[i] = point3D{R: float64(p.R), G: float64(p.G), B: float64(p.B)}
	}

	centroids, clusterWeights := e.kmeans(points, count)

	colours := make([]RGB, len(centroids))
	for i, c := range centroids {
		colours[i] = RGB{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)}
	}
	return newWeightedPalette(colours, clusterWeights), nil
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// kmeans clusters the points and returns centroids with their weights.
func (e *KMeansExtractor) kmeans(points []point3D, k int) ([]point3D, []float64) {
	centroids := e.seedCentroids(points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := nearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Under 1% of points moved: converged.
		if iter > 0 && float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		next := e.recalculateCentroids(points, assignments, k)

		movement := 0.0
		for i := range centroids {
			movement += centroids[i].distance(next[i])
		}
		centroids = next

		if movement/float64(k) < e.convergence {
			break
		}
	}

	weights := make([]float64, k)
	for _, a := range assignments {
		weights[a]++
	}
	for i := range weights {
		weights[i] /= float64(len(assignments))
	}

	return centroids, weights
}

// seedCentroids picks initial centroids with k-means++.
func (e *KMeansExtractor) seedCentroids(points []point3D, k int) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[e.rng.Intn(len(points))])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, point := range points {
			d := point.distance(centroids[nearestCentroid(point, centroids)])
			distances[i] = d * d
			total += distances[i]
		}

		if total == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := e.rng.Float64() * total
		cumulative := 0.0
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				centroids = append(centroids, points[i])
				break
			}
		}
	}

	return centroids
}

// nearestCentroid finds the index of the centroid closest to point.
func nearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, c := range centroids {
		if d := point.distance(c); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves each centroid to the mean of its points.
func (e *KMeansExtractor) recalculateCentroids(points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)
	for i, point := range points {
		c := assignments[i]
		sums[c].R += point.R
		sums[c].G += point.G
		sums[c].B += point.B
		counts[c]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] == 0 {
			// Empty cluster, reseed from a random point.
			centroids[i] = points[e.rng.Intn(len(points))]
			continue
		}
		n := float64(counts[i])
		centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
	}
	return centroids
}

// samplePixels returns opaque pixels of img, grid-sampled for large images.
func samplePixels(img image.Image) []RGB {
	const maxSamples = 2000

	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	step := 1
	if total > maxSamples {
		step = max(int(math.Sqrt(float64(total)/float64(maxSamples))), 1)
	}

	pixels := make([]RGB, 0, min(total, maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			pixels = append(pixels, ToRGB(c))
			if len(pixels) >= maxSamples {
				return pixels
			}
		}
	}
	return pixels
}

// newWeightedPalette builds a Palette from RGB values.
func newWeightedPalette(colours []RGB, weights []float64) *Palette {
	cs := make([]color.Color, len(colours))
	for i, c := range colours {
		cs[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	return NewPaletteWithWeights(cs, weights)
}

func clampChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
