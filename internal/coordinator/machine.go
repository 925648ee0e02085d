package coordinator

import (
	"time"

	"github.com/jmylchreest/safezone/internal/boundary"
	"github.com/jmylchreest/safezone/internal/worker"
)

type state int

const (
	stateIdle state = iota
	statePending
	stateComputing
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePending:
		return "pending"
	case stateComputing:
		return "computing"
	default:
		return "unknown"
	}
}

type actionKind int

const (
	actDispatch actionKind = iota
	actScheduleThrottle
	actCancelThrottle
	actScheduleTimeout
	actCancelTimeout
	actApply
	actFail
	actDrop
	actTimedOut
)

// Drop reasons, also used as metric labels.
const (
	dropSuperseded = "superseded"
	dropStale      = "stale"
)

// action is a side effect requested by the machine. Which fields are set
// depends on kind: id for everything request-related, token for throttle
// timers, params for dispatch and apply.
type action struct {
	kind   actionKind
	id     uint64
	token  uint64
	delay  time.Duration
	params boundary.RawParams
	result *boundary.Result
	reason string
}

// machine is the throttle, supersede and timeout logic with no goroutines or
// timers of its own. Every event takes the current time and returns the side
// effects the driver must perform, in order.
type machine struct {
	throttle time.Duration
	timeout  time.Duration

	state state
	ready bool

	latest     boundary.RawParams
	latestKey  string
	appliedKey string
	version    uint64
	dirty      bool

	lastDispatch time.Time
	dispatched   bool

	nextID          uint64
	inflight        uint64
	inflightVersion uint64
	inflightParams  boundary.RawParams

	throttleToken uint64
}

func newMachine(throttle, timeout time.Duration) *machine {
	return &machine{throttle: throttle, timeout: timeout}
}

// onParams records p as the latest parameters and dispatches now or later.
// Parameters that quantize to the latest key are ignored while that key is
// queued, in flight or already applied.
func (m *machine) onParams(now time.Time, p boundary.RawParams) []action {
	key := paramsKey(p)
	if key != invalidKey && key == m.latestKey &&
		(m.dirty || m.state == stateComputing || key == m.appliedKey) {
		return nil
	}
	m.latest = p
	m.latestKey = key
	m.version++
	m.dirty = true
	return m.kick(now)
}

// onReady marks the worker as able to take requests.
func (m *machine) onReady(now time.Time) []action {
	if m.ready {
		return nil
	}
	m.ready = true
	return m.kick(now)
}

// onThrottle handles a deferred dispatch firing. Tokens from replaced timers
// are ignored.
func (m *machine) onThrottle(now time.Time, token uint64) []action {
	if m.state != statePending || token != m.throttleToken {
		return nil
	}
	m.state = stateIdle
	if !m.dirty {
		return nil
	}
	return m.dispatch(now)
}

// onResponse handles a worker response. Only the in-flight ID is accepted.
func (m *machine) onResponse(now time.Time, resp worker.Response) []action {
	if resp.IsReady() {
		return m.onReady(now)
	}
	if m.state != stateComputing || resp.ID != m.inflight {
		return []action{{kind: actDrop, id: resp.ID, reason: dropSuperseded}}
	}

	acts := []action{{kind: actCancelTimeout, id: m.inflight}}
	stale := m.inflightVersion != m.version
	m.finish()

	switch {
	case stale:
		acts = append(acts, action{kind: actDrop, id: resp.ID, reason: dropStale})
		return append(acts, m.dispatch(now)...)
	case resp.Error != "":
		acts = append(acts, action{kind: actFail, id: resp.ID, reason: resp.Error})
	default:
		m.appliedKey = paramsKey(m.inflightParams)
		acts = append(acts, action{kind: actApply, id: resp.ID, params: m.inflightParams, result: resp.Result})
	}
	return append(acts, m.kick(now)...)
}

// onTimeout gives up on a request that took too long. The worker is not
// interrupted; its eventual response is dropped.
func (m *machine) onTimeout(now time.Time, id uint64) []action {
	if m.state != stateComputing || id != m.inflight {
		return nil
	}
	m.finish()
	acts := []action{{kind: actTimedOut, id: id}}
	return append(acts, m.kick(now)...)
}

// onSendError handles a request that never reached the worker.
func (m *machine) onSendError(now time.Time, id uint64, err error) []action {
	if m.state != stateComputing || id != m.inflight {
		return nil
	}
	m.finish()
	return []action{
		{kind: actCancelTimeout, id: id},
		{kind: actFail, id: id, reason: err.Error()},
	}
}

func (m *machine) finish() {
	m.state = stateIdle
	m.inflight = 0
}

// kick dispatches the latest parameters if the worker is free and the
// throttle delay has passed, or arms a deferred dispatch for the remainder.
func (m *machine) kick(now time.Time) []action {
	if !m.ready || !m.dirty || m.state == stateComputing {
		return nil
	}

	elapsed := now.Sub(m.lastDispatch)
	if !m.dispatched || elapsed >= m.throttle {
		return m.dispatch(now)
	}

	var acts []action
	if m.state == statePending {
		acts = append(acts, action{kind: actCancelThrottle, token: m.throttleToken})
	}
	m.state = statePending
	m.throttleToken++
	return append(acts, action{kind: actScheduleThrottle, token: m.throttleToken, delay: m.throttle - elapsed})
}

func (m *machine) dispatch(now time.Time) []action {
	var acts []action
	if m.state == statePending {
		acts = append(acts, action{kind: actCancelThrottle, token: m.throttleToken})
	}

	m.nextID++
	m.state = stateComputing
	m.inflight = m.nextID
	m.inflightVersion = m.version
	m.inflightParams = m.latest
	m.dirty = false
	m.lastDispatch = now
	m.dispatched = true

	return append(acts,
		action{kind: actDispatch, id: m.inflight, params: m.latest},
		action{kind: actScheduleTimeout, id: m.inflight, delay: m.timeout},
	)
}
