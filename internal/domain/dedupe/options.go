// Package dedupe coalesces pending recompute jobs so a run is queued at
// most once at a time.
package dedupe

// Option applies a configuration option to the inMemoryCoalescer.
type Option func(*inMemoryCoalescer)

// WithMaxSize sets the maximum number of pending ids to track.
// If maxSize > 0: bounded mode with FIFO eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCoalescer) {
		c.maxSize = maxSize
	}
}
