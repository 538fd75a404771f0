// Package worker defines worker contracts for asynchronous conflict badge
// recomputation.
package worker

import (
	"github.com/okian/greenroom/pkg/logger"
)

// Option applies a configuration option to the BadgeWorker.
type Option func(*BadgeWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *BadgeWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *BadgeWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
