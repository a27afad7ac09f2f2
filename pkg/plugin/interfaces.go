package plugin

import "context"

// Extractor is the interface extractor plugins implement.
type Extractor interface {
	// Extract returns up to req.Size colours from req.ImageRef in req.Order.
	Extract(ctx context.Context, req ExtractRequest) ([]Colour, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}
