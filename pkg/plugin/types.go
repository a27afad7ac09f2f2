package plugin

// SortOrder values accepted in ExtractRequest.Order.
const (
	OrderFrequency = "frequency" // Most common first
	OrderLuminance = "luminance" // Darkest first
)

// ExtractRequest asks a plugin for a palette.
type ExtractRequest struct {
	ImageRef string `json:"image_ref"` // Path, file:// URI or HTTP(S) URL
	Size     int    `json:"size"`      // Number of colours wanted
	Order    string `json:"order"`     // "frequency" or "luminance"
}

// Colour is an opaque RGB colour.
type Colour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// PluginInfo contains metadata about a plugin.
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion int    `json:"protocol_version"`
	Description     string `json:"description"`
}
