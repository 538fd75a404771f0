// Package lanes packs timed schedule events into parallel display tracks.
package lanes

// Option applies a configuration option to the GreedyAllocator.
type Option func(*GreedyAllocator)

// WithMaxLanes caps how many lanes may open before Assign fails with
// ErrLaneOverflow. Zero or negative means unbounded.
func WithMaxLanes(n int) Option {
	return func(a *GreedyAllocator) {
		a.maxLanes = n
	}
}
