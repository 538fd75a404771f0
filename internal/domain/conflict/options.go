// Package conflict finds scenes that need the same performer at the same
// time.
package conflict

// Option applies a configuration option to the PairwiseDetector.
type Option func(*PairwiseDetector)

// WithPreShow includes pre-show scenes in detection. By default they are
// filtered out before grouping.
func WithPreShow() Option {
	return func(d *PairwiseDetector) {
		d.includePreShow = true
	}
}
