// Package dedupe coalesces pending recompute jobs so a run is queued at
// most once at a time.
package dedupe

import (
	"context"
	"sync"
)

// Coalescer tracks pending ids to ensure at-most-one queued job per id.
type Coalescer interface {
	// SeenAndRecord atomically checks if id is pending and records it if
	// not. Returns true if id was already pending, false if it was newly
	// recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord clears an id's pending mark so it can be queued again.
	// Call it when the job is taken off the queue, or when enqueueing
	// failed after the mark was set.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of pending ids.
	Size() int
}

// Default coalescer configuration constants.
const (
	defaultMaxSize = 4096
)

// inMemoryCoalescer implements Coalescer with a bounded map. When the
// bound is hit, the oldest pending mark is evicted (FIFO); the worst
// outcome of eviction is one redundant recompute, never a lost one.
type inMemoryCoalescer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	order   []string
	maxSize int
}

// NewInMemoryCoalescer creates a coalescer with configuration options.
func NewInMemoryCoalescer(opts ...Option) Coalescer {
	c := &inMemoryCoalescer{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pending = make(map[string]struct{})
	return c
}

// SeenAndRecord atomically checks if id is pending and records it if not.
func (c *inMemoryCoalescer) SeenAndRecord(_ context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.pending[id]; exists {
		return true
	}
	if c.maxSize > 0 && len(c.pending) >= c.maxSize {
		c.evictOldest()
	}
	c.pending[id] = struct{}{}
	c.order = append(c.order, id)
	return false
}

// Unrecord clears an id's pending mark.
func (c *inMemoryCoalescer) Unrecord(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.pending[id]; !exists {
		return
	}
	delete(c.pending, id)
	for i, candidate := range c.order {
		if candidate == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Size returns the number of pending ids.
func (c *inMemoryCoalescer) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pending)
}

// evictOldest drops the oldest pending mark. Must be called with c.mu held.
func (c *inMemoryCoalescer) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.pending, oldest)
}
