package plugin

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// ExtractorRPC implements the go-plugin Plugin interface for extractors.
type ExtractorRPC struct {
	plugin.Plugin
	Impl Extractor
}

// Server returns an RPC server for this plugin.
func (p *ExtractorRPC) Server(*plugin.MuxBroker) (any, error) {
	return &ExtractorRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *ExtractorRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &ExtractorRPCClient{client: c}, nil
}

// ExtractorRPCServer is the RPC server side of an extractor.
type ExtractorRPCServer struct {
	Impl Extractor
}

// Extract implements the RPC method for palette extraction.
func (s *ExtractorRPCServer) Extract(req ExtractRequest, resp *[]Colour) error {
	colours, err := s.Impl.Extract(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = colours
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *ExtractorRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// ExtractorRPCClient is the host side of an extractor.
type ExtractorRPCClient struct {
	client *rpc.Client
}

// Extract calls the remote Extract method. The call is abandoned, not
// cancelled on the plugin side, when ctx is done.
func (c *ExtractorRPCClient) Extract(ctx context.Context, req ExtractRequest) ([]Colour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var colours []Colour
	call := c.client.Go("Plugin.Extract", req, &colours, nil)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.Done:
		if call.Error != nil {
			return nil, &RPCError{Message: call.Error.Error()}
		}
		return colours, nil
	}
}

// GetMetadata calls the remote GetMetadata method.
func (c *ExtractorRPCClient) GetMetadata() (PluginInfo, error) {
	var info PluginInfo
	err := c.client.Call("Plugin.GetMetadata", new(any), &info)
	return info, err
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}

// Serve runs impl as a go-plugin extractor. It blocks until the host disconnects.
func Serve(impl Extractor) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(impl),
	})
}
