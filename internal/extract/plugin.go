package extract

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/pkg/plugin"
)

// PluginSource delegates extraction to an external go-plugin extractor.
// The plugin process is started on first use and reused until Close.
type PluginSource struct {
	path   string
	logger hclog.Logger

	mu        sync.Mutex
	client    *goplugin.Client
	extractor *plugin.ExtractorRPCClient
}

// NewPluginSource creates a PluginSource for the executable at path.
func NewPluginSource(path string, logger hclog.Logger) *PluginSource {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginSource{path: path, logger: logger}
}

// Extract implements Source.
func (s *PluginSource) Extract(ctx context.Context, imageRef string, size int, order colour.SortOrder) ([]colour.RGB, error) {
	extractor, err := s.dispense()
	if err != nil {
		return nil, err
	}

	colours, err := extractor.Extract(ctx, plugin.ExtractRequest{
		ImageRef: imageRef,
		Size:     size,
		Order:    string(order),
	})
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", s.path, err)
	}

	out := make([]colour.RGB, len(colours))
	for i, c := range colours {
		out[i] = colour.RGB{R: c.R, G: c.G, B: c.B}
	}
	s.logger.Debug("plugin palette extracted", "plugin", s.path, "size", size, "got", len(out), "order", order)
	return out, nil
}

// Info returns the plugin's metadata.
func (s *PluginSource) Info() (plugin.PluginInfo, error) {
	extractor, err := s.dispense()
	if err != nil {
		return plugin.PluginInfo{}, err
	}
	return extractor.GetMetadata()
}

// Close stops the plugin process.
func (s *PluginSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Kill()
		s.client = nil
		s.extractor = nil
	}
}

func (s *PluginSource) dispense() (*plugin.ExtractorRPCClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.extractor != nil {
		return s.extractor, nil
	}

	s.client = goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  plugin.Handshake,
		Plugins:          plugin.PluginMap(nil),
		Cmd:              exec.Command(s.path), // #nosec G204 - User-configured plugin path
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           s.logger.Named("plugin"),
	})

	rpcClient, err := s.client.Client()
	if err != nil {
		s.client.Kill()
		s.client = nil
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginName)
	if err != nil {
		s.client.Kill()
		s.client = nil
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	extractor, ok := raw.(*plugin.ExtractorRPCClient)
	if !ok {
		s.client.Kill()
		s.client = nil
		return nil, fmt.Errorf("plugin %s dispensed unexpected type %T", s.path, raw)
	}
	s.extractor = extractor
	return extractor, nil
}
