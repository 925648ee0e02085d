// Package coordinator throttles boundary recalculations, keeps at most one in
// flight and makes sure the last result applied matches the last parameters
// set.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/safezone/internal/boundary"
	"github.com/jmylchreest/safezone/internal/worker"
)

// Defaults for Options.
const (
	DefaultThrottle = 100 * time.Millisecond
	DefaultTimeout  = 2000 * time.Millisecond
)

// ErrNotReady is returned by Latest before any result has been applied.
var ErrNotReady = errors.New("no boundary result yet")

// Transport carries requests to a worker and its responses back.
// worker.Local and worker.Process implement it.
type Transport interface {
	Send(req worker.Request) error
	Responses() <-chan worker.Response
	Close() error
}

// Update is a result applied by the coordinator.
type Update struct {
	RequestID uint64
	Params    boundary.RawParams
	Key       string
	Result    *boundary.Result
	Elapsed   time.Duration
}

// Options configures a Coordinator. Zero durations use the defaults.
type Options struct {
	Throttle time.Duration
	Timeout  time.Duration
	Clock    Clock
	Logger   hclog.Logger
	Metrics  *Metrics
}

type timerEvent struct {
	timeout bool
	id      uint64
	token   uint64
}

// Coordinator drives the request state machine from a single goroutine.
type Coordinator struct {
	id        string
	transport Transport
	clock     Clock
	logger    hclog.Logger
	metrics   *Metrics
	m         *machine

	// latest-wins inbox for SetParams
	inMu    sync.Mutex
	pending *boundary.RawParams
	notify  chan struct{}

	timerEvents   chan timerEvent
	done          chan struct{}
	throttleTimer Timer
	timeoutTimer  Timer
	sentAt        map[uint64]time.Time

	results chan Update
	outMu   sync.Mutex
	latest  *Update
}

// New creates a Coordinator for transport. Call Run to start it.
func New(transport Transport, opts Options) *Coordinator {
	if opts.Throttle <= 0 {
		opts.Throttle = DefaultThrottle
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Coordinator{
		id:          id,
		transport:   transport,
		clock:       opts.Clock,
		logger:      logger.With("consumer", id),
		metrics:     opts.Metrics,
		m:           newMachine(opts.Throttle, opts.Timeout),
		notify:      make(chan struct{}, 1),
		timerEvents: make(chan timerEvent, 4),
		done:        make(chan struct{}),
		sentAt:      make(map[uint64]time.Time),
		results:     make(chan Update, 1),
	}
}

// ID identifies this coordinator in logs.
func (c *Coordinator) ID() string {
	return c.id
}

// SetParams records new parameters. It never blocks; if several calls
// arrive before the coordinator wakes up, only the last one is seen.
func (c *Coordinator) SetParams(p boundary.RawParams) {
	c.inMu.Lock()
	c.pending = &p
	c.inMu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Results delivers applied updates. Only the newest unread update is kept.
func (c *Coordinator) Results() <-chan Update {
	return c.results
}

// Latest returns the most recently applied update.
func (c *Coordinator) Latest() (Update, error) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if c.latest == nil {
		return Update{}, ErrNotReady
	}
	return *c.latest, nil
}

// Run processes events until ctx is done or the transport stops. It returns
// ctx.Err() on cancellation. Run must only be called once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.stopTimers()

	responses := c.transport.Responses()
	for {
		var acts []action
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.notify:
			c.inMu.Lock()
			p := c.pending
			c.pending = nil
			c.inMu.Unlock()
			if p == nil {
				continue
			}
			c.logger.Trace("params changed", "key", paramsKey(*p))
			acts = c.m.onParams(c.clock.Now(), *p)

		case resp, ok := <-responses:
			if !ok {
				return fmt.Errorf("worker stopped: %w", worker.ErrClosed)
			}
			if resp.IsReady() {
				c.logger.Debug("worker ready")
			}
			acts = c.m.onResponse(c.clock.Now(), resp)

		case ev := <-c.timerEvents:
			if ev.timeout {
				acts = c.m.onTimeout(c.clock.Now(), ev.id)
			} else {
				acts = c.m.onThrottle(c.clock.Now(), ev.token)
			}
		}
		c.perform(ctx, acts)
	}
}

func (c *Coordinator) perform(ctx context.Context, acts []action) {
	for i := 0; i < len(acts); i++ {
		a := acts[i]
		switch a.kind {
		case actDispatch:
			params := a.params
			c.sentAt[a.id] = c.clock.Now()
			c.metrics.observeDispatch()
			c.logger.Debug("dispatching", "id", a.id, "key", paramsKey(params))
			if err := c.transport.Send(worker.Request{ID: a.id, Params: &params}); err != nil {
				acts = append(acts, c.m.onSendError(c.clock.Now(), a.id, err)...)
			}

		case actScheduleThrottle:
			c.stop(&c.throttleTimer)
			token := a.token
			c.throttleTimer = c.clock.AfterFunc(a.delay, func() {
				c.post(ctx, timerEvent{token: token})
			})

		case actCancelThrottle:
			c.stop(&c.throttleTimer)

		case actScheduleTimeout:
			c.stop(&c.timeoutTimer)
			id := a.id
			c.timeoutTimer = c.clock.AfterFunc(a.delay, func() {
				c.post(ctx, timerEvent{timeout: true, id: id})
			})

		case actCancelTimeout:
			c.stop(&c.timeoutTimer)

		case actApply:
			elapsed := c.clock.Now().Sub(c.sentAt[a.id])
			delete(c.sentAt, a.id)
			c.metrics.observeApply(elapsed.Seconds())
			c.logger.Debug("applied", "id", a.id, "elapsed", elapsed)
			c.publish(Update{
				RequestID: a.id,
				Params:    a.params,
				Key:       paramsKey(a.params),
				Result:    a.result,
				Elapsed:   elapsed,
			})

		case actFail:
			delete(c.sentAt, a.id)
			c.metrics.observeFail()
			c.logger.Warn("calculation failed", "id", a.id, "error", a.reason)

		case actDrop:
			delete(c.sentAt, a.id)
			c.metrics.observeDrop(a.reason)
			c.logger.Debug("dropped response", "id", a.id, "reason", a.reason)

		case actTimedOut:
			delete(c.sentAt, a.id)
			c.metrics.observeTimeout()
			c.logger.Warn("calculation timed out", "id", a.id)
		}
	}
}

func (c *Coordinator) post(ctx context.Context, ev timerEvent) {
	select {
	case c.timerEvents <- ev:
	case <-ctx.Done():
	case <-c.done:
	}
}

func (c *Coordinator) stop(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (c *Coordinator) stopTimers() {
	c.stop(&c.throttleTimer)
	c.stop(&c.timeoutTimer)
}

// publish replaces any unread update with u. Run is the only sender.
func (c *Coordinator) publish(u Update) {
	c.outMu.Lock()
	c.latest = &u
	c.outMu.Unlock()

	select {
	case <-c.results:
	default:
	}
	c.results <- u
}

const invalidKey = "invalid"

func paramsKey(p boundary.RawParams) string {
	q, err := p.Quantize()
	if err != nil {
		return invalidKey
	}
	return q.Key()
}
