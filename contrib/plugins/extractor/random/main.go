// random - Random Palette Extractor (Tinct Shell Extractor Plugin)
//
// Returns random colours instead of reading the image. The generator is
// seeded from the image reference, so the same wallpaper always yields the
// same palette. Useful for testing themes and as a template for real
// extractor plugins.
//
// Uses the go-plugin RPC protocol exposed by pkg/plugin.
//
// Build:
//   go build -o tinct-shell-random
//
// Usage:
//   tinct-shell -g -d --plugin ./tinct-shell-random
//   tinct-shell extract --plugin ./tinct-shell-random wallpaper.jpg
//
// Author: Tinct Contributors
// License: MIT

package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	mathrand "math/rand/v2"
	"os"
	"sort"

	"github.com/jmylchreest/tinct-shell/pkg/plugin"
)

// RandomExtractor implements the plugin.Extractor interface.
type RandomExtractor struct{}

// Extract generates req.Size colours for req.ImageRef.
func (p *RandomExtractor) Extract(ctx context.Context, req plugin.ExtractRequest) ([]plugin.Colour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Size < 0 {
		return nil, fmt.Errorf("invalid size: %d", req.Size)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(req.ImageRef))
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:8], h.Sum64())
	// #nosec G404 -- Using math/rand intentionally for deterministic colour generation, not cryptography
	rng := mathrand.New(mathrand.NewChaCha8(seed))

	colours := make([]plugin.Colour, req.Size)
	for i := range colours {
		colours[i] = plugin.Colour{
			// #nosec G115 -- rng.IntN(256) returns 0-255, safe for uint8
			R: uint8(rng.IntN(256)),
			// #nosec G115 -- rng.IntN(256) returns 0-255, safe for uint8
			G: uint8(rng.IntN(256)),
			// #nosec G115 -- rng.IntN(256) returns 0-255, safe for uint8
			B: uint8(rng.IntN(256)),
		}
	}

	switch req.Order {
	case plugin.OrderFrequency:
	case plugin.OrderLuminance:
		sort.SliceStable(colours, func(i, j int) bool {
			return luma(colours[i]) < luma(colours[j])
		})
	default:
		return nil, fmt.Errorf("unsupported order: %q", req.Order)
	}
	return colours, nil
}

// GetMetadata returns plugin metadata.
func (p *RandomExtractor) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            "random",
		Version:         "0.0.1",
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Random palettes seeded from the image reference",
	}
}

func luma(c plugin.Colour) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

func main() {
	// Handle --plugin-info flag
	if len(os.Args) > 1 && os.Args[1] == "--plugin-info" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode((&RandomExtractor{}).GetMetadata()); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	plugin.Serve(&RandomExtractor{})
}
