// Package extract produces the candidate pools the assignment engine draws from.
package extract

import (
	"context"
	"fmt"
	stdimage "image"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinct-shell/internal/assign"
	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/image"
)

const (
	// FrequencyHeadroom and LuminanceHeadroom are added to the number of
	// value groups to size each pool.
	FrequencyHeadroom = 3
	LuminanceHeadroom = 8

	// MaxPoolSize is the largest palette an extractor is asked for.
	MaxPoolSize = 256
)

// Source extracts an ordered palette of size colours from an image.
type Source interface {
	Extract(ctx context.Context, imageRef string, size int, order colour.SortOrder) ([]colour.RGB, error)
}

// ImageSource extracts palettes in-process. Each image is decoded once per
// source and reused for both pool extractions.
type ImageSource struct {
	loader    image.Loader
	algorithm colour.Algorithm
	seed      int64
	logger    hclog.Logger

	mu     sync.Mutex
	images map[string]stdimage.Image
}

// NewImageSource creates an ImageSource using algorithm. A non-zero seed
// makes stochastic algorithms reproducible.
func NewImageSource(loader image.Loader, algorithm colour.Algorithm, seed int64, logger hclog.Logger) (*ImageSource, error) {
	if !colour.IsValidAlgorithm(algorithm) {
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", algorithm, colour.ValidAlgorithms())
	}
	if loader == nil {
		loader = image.NewSmartLoader()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ImageSource{
		loader:    loader,
		algorithm: algorithm,
		seed:      seed,
		logger:    logger,
		images:    make(map[string]stdimage.Image),
	}, nil
}

// Extract implements Source.
func (s *ImageSource) Extract(ctx context.Context, imageRef string, size int, order colour.SortOrder) ([]colour.RGB, error) {
	img, err := s.load(ctx, imageRef)
	if err != nil {
		return nil, err
	}

	extractor, err := colour.NewExtractor(s.algorithm, s.seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	palette, err := extractor.Extract(img, size)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}

	s.logger.Debug("palette extracted", "image", imageRef, "algorithm", s.algorithm, "size", size, "got", palette.Len(), "order", order)
	return palette.Sorted(order), nil
}

func (s *ImageSource) load(ctx context.Context, ref string) (stdimage.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img, ok := s.images[ref]; ok {
		return img, nil
	}

	img, err := s.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	s.logger.Debug("image loaded", "image", ref, "width", bounds.Dx(), "height", bounds.Dy())

	s.images[ref] = img
	return img, nil
}

// PoolSizes returns the frequency and luminance pool sizes for n distinct values.
func PoolSizes(n int) (frequency, luminance int) {
	return min(n+FrequencyHeadroom, MaxPoolSize), min(n+LuminanceHeadroom, MaxPoolSize)
}

// BuildPools extracts both candidate pools for n distinct values from imageRef.
func BuildPools(ctx context.Context, src Source, imageRef string, n int) (assign.Pools, error) {
	freqSize, lumSize := PoolSizes(n)

	frequency, err := src.Extract(ctx, imageRef, freqSize, colour.SortFrequency)
	if err != nil {
		return assign.Pools{}, fmt.Errorf("failed to extract frequency pool: %w", err)
	}

	luminance, err := src.Extract(ctx, imageRef, lumSize, colour.SortLuminance)
	if err != nil {
		return assign.Pools{}, fmt.Errorf("failed to extract luminance pool: %w", err)
	}

	return assign.NewPools(frequency, luminance), nil
}
