package worker

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// mailboxSize bounds the number of queued requests and responses.
const mailboxSize = 16

// Local is an in-process worker: a single goroutine draining a request
// mailbox. Params are copied into the mailbox and results are never mutated
// after they are sent, so nothing is shared with the caller.
type Local struct {
	computer  *Computer
	logger    hclog.Logger
	requests  chan Request
	responses chan Response

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewLocal starts a worker goroutine. Its first response is the ready signal.
func NewLocal(logger hclog.Logger, cacheSize int) *Local {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	w := &Local{
		computer:  NewComputer(logger, cacheSize),
		logger:    logger,
		requests:  make(chan Request, mailboxSize),
		responses: make(chan Response, mailboxSize),
		done:      make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

func (w *Local) loop() {
	defer w.wg.Done()

	if !w.emit(Ready()) {
		return
	}
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			if !w.emit(w.computer.Compute(req)) {
				return
			}
		}
	}
}

func (w *Local) emit(resp Response) bool {
	select {
	case w.responses <- resp:
		return true
	case <-w.done:
		return false
	}
}

// Send queues a request. Params are copied before queuing.
func (w *Local) Send(req Request) error {
	if req.Params != nil {
		p := *req.Params
		req.Params = &p
	}
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	select {
	case w.requests <- req:
		return nil
	case <-w.done:
		return ErrClosed
	}
}

// Responses delivers the ready signal followed by one response per request,
// in request order.
func (w *Local) Responses() <-chan Response {
	return w.responses
}

// Close stops the worker. A calculation in progress finishes but its
// response is dropped.
func (w *Local) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
	return nil
}
