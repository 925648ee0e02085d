package worker

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// ProcessConfig describes how to launch an isolated worker.
type ProcessConfig struct {
	// Path is the executable to run, normally the current binary.
	Path string
	// Args are passed to the executable, normally the hidden worker command.
	Args []string
	// Logger receives the plugin host logs and the worker's stderr.
	Logger hclog.Logger
}

// Process runs calculations in a child process over go-plugin net/rpc.
// The child is started in the background; the ready signal is emitted once
// the RPC client has been dispensed. If the child cannot be started,
// Responses is closed and Err reports why.
type Process struct {
	cfg    ProcessConfig
	logger hclog.Logger

	requests  chan Request
	responses chan Response
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu     sync.Mutex
	client *plugin.Client
	err    error
}

// NewProcess starts launching the worker process.
func NewProcess(cfg ProcessConfig) *Process {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	p := &Process{
		cfg:       cfg,
		logger:    logger,
		requests:  make(chan Request, mailboxSize),
		responses: make(chan Response, mailboxSize),
		done:      make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

func (p *Process) start() (*RPCClient, error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &BoundaryPlugin{},
		},
		Cmd:              exec.Command(p.cfg.Path, p.cfg.Args...), //nolint:gosec // path is our own executable
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           p.logger,
	})

	p.mu.Lock()
	p.client = client
	p.mu.Unlock()

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	return raw.(*RPCClient), nil
}

func (p *Process) loop() {
	defer p.wg.Done()
	defer close(p.responses)

	rpcClient, err := p.start()
	if err != nil {
		p.fail(err)
		return
	}
	p.logger.Debug("worker process ready", "path", p.cfg.Path)

	if !p.emit(Ready()) {
		return
	}
	for {
		select {
		case <-p.done:
			return
		case req := <-p.requests:
			resp, err := rpcClient.Compute(req)
			if err != nil {
				// The child is gone; surface the failure and stop.
				p.fail(fmt.Errorf("request %d: %w", req.ID, err))
				return
			}
			if !p.emit(resp) {
				return
			}
		}
	}
}

func (p *Process) fail(err error) {
	p.logger.Error("worker process failed", "error", err)
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *Process) emit(resp Response) bool {
	select {
	case p.responses <- resp:
		return true
	case <-p.done:
		return false
	}
}

// Send queues a request for the child process.
func (p *Process) Send(req Request) error {
	if err := p.Err(); err != nil {
		return err
	}
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.requests <- req:
		return nil
	case <-p.done:
		return ErrClosed
	}
}

// Responses delivers the ready signal and then one response per request.
func (p *Process) Responses() <-chan Response {
	return p.responses
}

// Err returns the error that stopped the worker, if any.
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close kills the child process and stops the worker.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.kill()
	})
	p.wg.Wait()
	// The child may have been launched while Close was waiting.
	p.kill()
	return nil
}

func (p *Process) kill() {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()
	if client != nil {
		client.Kill()
	}
}
