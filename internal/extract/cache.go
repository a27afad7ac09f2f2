package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/image"
)

// PaletteCache stores extracted palettes by key.
type PaletteCache interface {
	GetPalette(ctx context.Context, key string) ([]colour.RGB, bool, error)
	PutPalette(ctx context.Context, key string, colours []colour.RGB) error
}

// CachedSource memoizes a Source for local images. Entries are keyed on the
// file's modification time and size, so an edited wallpaper misses.
// Remote images are never cached.
type CachedSource struct {
	next      Source
	cache     PaletteCache
	namespace string
	logger    hclog.Logger
}

// NewCachedSource wraps next. namespace separates palettes produced by
// different algorithms or plugins.
func NewCachedSource(next Source, cache PaletteCache, namespace string, logger hclog.Logger) *CachedSource {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CachedSource{next: next, cache: cache, namespace: namespace, logger: logger}
}

// Extract implements Source.
func (s *CachedSource) Extract(ctx context.Context, imageRef string, size int, order colour.SortOrder) ([]colour.RGB, error) {
	key, ok := s.key(imageRef, size, order)
	if !ok {
		return s.next.Extract(ctx, imageRef, size, order)
	}

	colours, hit, err := s.cache.GetPalette(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("palette cache read failed", "error", err)
	case hit:
		s.logger.Debug("palette cache hit", "key", key)
		return colours, nil
	}

	colours, err = s.next.Extract(ctx, imageRef, size, order)
	if err != nil {
		return nil, err
	}

	if err := s.cache.PutPalette(ctx, key, colours); err != nil {
		s.logger.Warn("palette cache write failed", "error", err)
	}
	return colours, nil
}

func (s *CachedSource) key(imageRef string, size int, order colour.SortOrder) (string, bool) {
	if image.IsRemote(imageRef) {
		return "", false
	}
	info, err := os.Stat(image.LocalPath(imageRef))
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s|%s|%d|%d|%d|%s",
		s.namespace, image.LocalPath(imageRef), info.ModTime().UnixNano(), info.Size(), size, order), true
}
