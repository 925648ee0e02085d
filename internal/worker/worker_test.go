package worker

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/safezone/internal/boundary"
	"github.com/jmylchreest/safezone/internal/colour"
)

func sample(hue float64) *boundary.RawParams {
	return &boundary.RawParams{
		Width: 60, Height: 60, Hue: hue,
		Background: colour.White, Alpha: 1, Threshold: 4.5, ColorSpace: boundary.HSL,
	}
}

func receive(t *testing.T, ch <-chan Response) Response {
	t.Helper()
	select {
	case resp, ok := <-ch:
		if !ok {
			t.Fatal("responses channel closed")
		}
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a response")
	}
	return Response{}
}

func TestComputerCompute(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantErr   string
		wantUpper bool
	}{
		{
			name:      "valid",
			req:       Request{ID: 1, Params: sample(0)},
			wantUpper: true,
		},
		{
			name:    "missing params",
			req:     Request{ID: 2},
			wantErr: "request 2: missing params",
		},
		{
			name:    "zero id",
			req:     Request{ID: 0, Params: sample(0)},
			wantErr: "id must be positive",
		},
		{
			name: "non-positive threshold",
			req: Request{ID: 3, Params: &boundary.RawParams{
				Width: 10, Height: 10, Alpha: 1, Threshold: 0,
			}},
			wantErr: "request 3:",
		},
	}

	c := NewComputer(nil, DefaultCacheSize)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.Compute(tt.req)
			if resp.ID != tt.req.ID {
				t.Errorf("ID = %d, want %d", resp.ID, tt.req.ID)
			}
			if tt.wantErr != "" {
				if !strings.Contains(resp.Error, tt.wantErr) {
					t.Errorf("Error = %q, want it to contain %q", resp.Error, tt.wantErr)
				}
				if resp.Result != nil {
					t.Error("error response carries a result")
				}
				return
			}
			if resp.Error != "" {
				t.Fatalf("unexpected error %q", resp.Error)
			}
			if (resp.Result.Upper != nil) != tt.wantUpper {
				t.Errorf("Upper present = %v, want %v", resp.Result.Upper != nil, tt.wantUpper)
			}
		})
	}
}

func TestComputerCache(t *testing.T) {
	c := NewComputer(nil, 1)

	first := c.Compute(Request{ID: 1, Params: sample(10.2)})
	// 9.8 quantizes to the same hue.
	second := c.Compute(Request{ID: 2, Params: sample(9.8)})
	if first.Result != second.Result {
		t.Error("expected the cached result for equivalent params")
	}
	if second.ID != 2 {
		t.Errorf("cached response ID = %d, want 2", second.ID)
	}

	c.Compute(Request{ID: 3, Params: sample(200)})
	third := c.Compute(Request{ID: 4, Params: sample(10)})
	if third.Result == first.Result {
		t.Error("expected eviction with a cache of one entry")
	}

	uncached := NewComputer(nil, 0)
	a := uncached.Compute(Request{ID: 1, Params: sample(10)})
	b := uncached.Compute(Request{ID: 2, Params: sample(10)})
	if a.Result == b.Result {
		t.Error("expected fresh results with caching disabled")
	}
}

func TestLocalWorker(t *testing.T) {
	w := NewLocal(nil, DefaultCacheSize)
	defer w.Close()

	if resp := receive(t, w.Responses()); !resp.IsReady() {
		t.Fatalf("first response = %+v, want ready", resp)
	}

	for id := uint64(1); id <= 3; id++ {
		if err := w.Send(Request{ID: id, Params: sample(float64(id) * 30)}); err != nil {
			t.Fatalf("Send(%d) error = %v", id, err)
		}
	}
	for id := uint64(1); id <= 3; id++ {
		resp := receive(t, w.Responses())
		if resp.ID != id {
			t.Errorf("response ID = %d, want %d", resp.ID, id)
		}
		if resp.Error != "" || resp.Result == nil {
			t.Errorf("response %d = %+v, want a result", id, resp)
		}
	}
}

func TestLocalWorkerCopiesParams(t *testing.T) {
	w := NewLocal(nil, 0)
	defer w.Close()
	receive(t, w.Responses())

	p := sample(0)
	if err := w.Send(Request{ID: 1, Params: p}); err != nil {
		t.Fatal(err)
	}
	p.Threshold = -1

	if resp := receive(t, w.Responses()); resp.Error != "" {
		t.Errorf("worker saw the caller's later mutation: %s", resp.Error)
	}
}

func TestLocalWorkerClose(t *testing.T) {
	w := NewLocal(nil, 0)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := w.Send(Request{ID: 1, Params: sample(0)}); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after Close error = %v, want ErrClosed", err)
	}
}

func TestRPCRoundTrip(t *testing.T) {
	client, _ := plugin.TestPluginRPCConn(t, map[string]plugin.Plugin{
		PluginName: &BoundaryPlugin{Impl: NewComputer(nil, 0)},
	}, nil)
	defer client.Close()

	raw, err := client.Dispense(PluginName)
	if err != nil {
		t.Fatalf("Dispense() error = %v", err)
	}
	calc, ok := raw.(*RPCClient)
	if !ok {
		t.Fatalf("dispensed %T, want *RPCClient", raw)
	}

	want := NewComputer(nil, 0).Compute(Request{ID: 7, Params: sample(0)})
	got, err := calc.Compute(Request{ID: 7, Params: sample(0)})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got.ID != 7 || got.Error != "" {
		t.Fatalf("Compute() = %+v", got)
	}
	if got.Result.Upper == nil || want.Result.Upper == nil {
		t.Fatal("expected an upper boundary on both sides")
	}
	if len(got.Result.Upper.Segments) != len(want.Result.Upper.Segments) {
		t.Errorf("segments over RPC = %d, want %d",
			len(got.Result.Upper.Segments), len(want.Result.Upper.Segments))
	}

	bad, err := calc.Compute(Request{ID: 8})
	if err != nil {
		t.Fatalf("Compute() transport error = %v", err)
	}
	if bad.Error == "" {
		t.Error("expected an error response for missing params")
	}
}

func TestProcessStartFailure(t *testing.T) {
	p := NewProcess(ProcessConfig{Path: "/nonexistent/safezone-worker"})
	defer p.Close()

	select {
	case _, ok := <-p.Responses():
		if ok {
			t.Fatal("expected the responses channel to close")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for start failure")
	}
	if p.Err() == nil {
		t.Error("Err() = nil after start failure")
	}
	if err := p.Send(Request{ID: 1, Params: sample(0)}); err == nil {
		t.Error("Send() succeeded on a failed worker")
	}
}
