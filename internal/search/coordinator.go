package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/markwize/quotewizard-backend/pkg/metrics"
)

// Coordinator serializes keystroke-driven queries against the index.
// Each accepted query gets a monotonically increasing sequence number;
// only the response matching the latest issued sequence is applied, so
// a slow response to an older query can never overwrite newer results.
// Queries below the minimum length clear the current results and cancel
// any pending debounce timer.
type Coordinator struct {
	index       Index
	logg        *logger.Logger
	engine      *metrics.EngineMetrics
	minQueryLen int
	debounce    time.Duration
	resultLimit int

	mu      sync.Mutex
	seq     uint64
	applied uint64
	timer   *time.Timer
	results []Hit
}

// NewCoordinator builds a coordinator over the given index.
func NewCoordinator(index Index, cfg config.SearchConfig, engine *metrics.EngineMetrics, logg *logger.Logger) (*Coordinator, error) {
	if index == nil {
		return nil, fmt.Errorf("search index required")
	}
	minLen := cfg.MinQueryLen
	if minLen <= 0 {
		minLen = 2
	}
	debounce := cfg.Debounce
	if debounce < 0 {
		debounce = 0
	}
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = 20
	}
	return &Coordinator{
		index:       index,
		logg:        logg,
		engine:      engine,
		minQueryLen: minLen,
		debounce:    debounce,
		resultLimit: limit,
	}, nil
}

// Submit registers a keystroke. Sub-threshold queries clear the visible
// results immediately; longer queries are issued after the debounce
// window, superseding any earlier pending query.
func (c *Coordinator) Submit(ctx context.Context, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if len([]rune(query)) < c.minQueryLen {
		c.seq++
		c.applied = c.seq
		c.results = nil
		c.engine.IncSearchQuery("short")
		return
	}

	c.seq++
	seq := c.seq
	c.timer = time.AfterFunc(c.debounce, func() {
		c.run(ctx, seq, query)
	})
}

// Search issues the query immediately, bypassing the debounce window
// but still subject to the latest-wins guard. Used by the HTTP surface
// where the client controls its own typing cadence.
func (c *Coordinator) Search(ctx context.Context, query string) ([]Hit, error) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	hits, err := c.index.Search(ctx, query, c.resultLimit)
	if err != nil {
		c.engine.IncSearchQuery("error")
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied || seq < c.seq {
		// A newer query superseded this one while it was in flight.
		c.engine.IncSearchStale()
		return c.snapshotLocked(), nil
	}
	c.applied = seq
	c.results = hits
	c.engine.IncSearchQuery("ok")
	return c.snapshotLocked(), nil
}

func (c *Coordinator) run(ctx context.Context, seq uint64, query string) {
	hits, err := c.index.Search(ctx, query, c.resultLimit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.seq {
		// Stale: dropped silently per the sequence guard.
		c.engine.IncSearchStale()
		return
	}

	if err != nil {
		c.engine.IncSearchQuery("error")
		if c.logg != nil {
			c.logg.Error(ctx, "search.query_failed", err)
		}
		return
	}

	c.applied = seq
	c.results = hits
	c.engine.IncSearchQuery("ok")
}

// Results returns the currently applied result set.
func (c *Coordinator) Results() []Hit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() []Hit {
	out := make([]Hit, len(c.results))
	copy(out, c.results)
	return out
}

// MinQueryLen exposes the configured threshold.
func (c *Coordinator) MinQueryLen() int {
	return c.minQueryLen
}
