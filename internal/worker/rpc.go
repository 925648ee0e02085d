package worker

import (
	"net/rpc"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// PluginName is the name the boundary calculator is dispensed under.
const PluginName = "boundary"

// Handshake guards against running the worker subcommand by hand or from an
// incompatible build.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SAFEZONE_WORKER",
	MagicCookieValue: "contrast_boundary",
}

// Calculator is implemented by anything that can answer a single request.
type Calculator interface {
	Compute(req Request) Response
}

// BoundaryPlugin implements plugin.Plugin for the net/rpc protocol.
type BoundaryPlugin struct {
	plugin.Plugin
	Impl Calculator
}

// Server returns an RPC server for this plugin.
func (p *BoundaryPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &RPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *BoundaryPlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &RPCClient{client: c}, nil
}

// RPCServer is the RPC server side of the plugin.
type RPCServer struct {
	Impl Calculator
}

// Compute implements the RPC method. Calculation failures travel inside the
// response, not as RPC errors.
func (s *RPCServer) Compute(req Request, resp *Response) error {
	*resp = s.Impl.Compute(req)
	return nil
}

// RPCClient is the RPC client side of the plugin.
type RPCClient struct {
	client *rpc.Client
}

// Compute calls the remote Compute method.
func (c *RPCClient) Compute(req Request) (Response, error) {
	var resp Response
	err := c.client.Call("Plugin.Compute", req, &resp)
	return resp, err
}

// Serve runs the worker side of the plugin protocol until the host goes away.
// It is called from the hidden worker subcommand.
func Serve(logger hclog.Logger, cacheSize int) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &BoundaryPlugin{Impl: NewComputer(logger, cacheSize)},
		},
		Logger: logger,
	})
}
