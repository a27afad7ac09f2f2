// Package plugin provides the public API for tinct-shell extractor plugins.
// External plugins should import this package instead of internal packages.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion is the extractor plugin API version.
	ProtocolVersion = 1

	// PluginName is the key the extractor is dispensed under.
	PluginName = "extractor"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that plugins using go-plugin can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  ProtocolVersion,
	MagicCookieKey:   "TINCT_SHELL_PLUGIN",
	MagicCookieValue: "tinct_shell_extractor",
}

// PluginMap returns the plugin set served or consumed for impl.
// A nil impl is used on the host side.
func PluginMap(impl Extractor) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &ExtractorRPC{Impl: impl},
	}
}
