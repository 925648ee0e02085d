// Package worker runs boundary calculations away from the caller, reachable
// only through request and response messages.
package worker

import (
	"errors"

	"github.com/jmylchreest/safezone/internal/boundary"
)

// StatusReady marks the one-off message a worker sends once it can accept
// requests. It always carries ID 0.
const StatusReady = "ready"

// ErrClosed is returned when sending to a stopped worker.
var ErrClosed = errors.New("worker closed")

// Request asks the worker to compute the boundaries for Params. IDs are
// positive and chosen by the caller.
type Request struct {
	ID     uint64              `json:"id"`
	Params *boundary.RawParams `json:"params"`
}

// Response carries either a Result or an Error for the request with the same
// ID, or the ready signal.
type Response struct {
	ID     uint64           `json:"id"`
	Status string           `json:"status,omitempty"`
	Result *boundary.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// IsReady reports whether r is the startup signal.
func (r Response) IsReady() bool {
	return r.ID == 0 && r.Status == StatusReady
}

// Ready returns the startup signal.
func Ready() Response {
	return Response{ID: 0, Status: StatusReady}
}
