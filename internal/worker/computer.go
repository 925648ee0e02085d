package worker

import (
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/safezone/internal/boundary"
)

// DefaultCacheSize is the number of results a Computer keeps.
const DefaultCacheSize = 64

// Computer answers requests, caching results by their quantized parameters.
// It is safe for concurrent use.
type Computer struct {
	logger hclog.Logger

	mu    sync.Mutex
	cache *lru.Cache
}

// NewComputer creates a Computer. A cacheSize of zero or less disables caching.
func NewComputer(logger hclog.Logger, cacheSize int) *Computer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Computer{logger: logger}
	if cacheSize > 0 {
		c.cache = lru.New(cacheSize)
	}
	return c
}

// Compute handles one request. Failures become error responses; it never
// panics.
func (c *Computer) Compute(req Request) (resp Response) {
	resp.ID = req.ID

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("calculation panicked", "id", req.ID, "panic", r)
			resp = Response{ID: req.ID, Error: fmt.Sprintf("request %d: calculation failed: %v", req.ID, r)}
		}
	}()

	if req.ID == 0 {
		resp.Error = "request 0: id must be positive"
		return resp
	}
	if req.Params == nil {
		resp.Error = fmt.Sprintf("request %d: missing params", req.ID)
		return resp
	}

	p, err := req.Params.Quantize()
	if err != nil {
		resp.Error = fmt.Sprintf("request %d: %v", req.ID, err)
		return resp
	}

	key := p.Key()
	if res, ok := c.cached(key); ok {
		c.logger.Debug("cache hit", "id", req.ID, "key", key)
		resp.Result = res
		return resp
	}

	resp.Result = boundary.CalculateParams(p)
	c.store(key, resp.Result)
	c.logger.Debug("calculated",
		"id", req.ID,
		"key", key,
		"lower", resp.Result.Lower != nil,
		"upper", resp.Result.Upper != nil,
	)
	return resp
}

func (c *Computer) cached(key string) (*boundary.Result, bool) {
	if c.cache == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*boundary.Result), true
}

func (c *Computer) store(key string, res *boundary.Result) {
	if c.cache == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, res)
}
