// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	repository "github.com/okian/greenroom/internal/adapters/repository"
	"github.com/okian/greenroom/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing store. Defaults to a fresh MemStore.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the recompute queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the pending-job coalescing cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxLanes caps schedule grid width. Zero means unbounded.
func WithMaxLanes(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxLanes = n
		}
	}
}

// WithPreShow opts pre-show scenes into conflict detection.
func WithPreShow(include bool) Option {
	return func(s *Service) {
		s.includePreShow = include
	}
}

// WithSeedFile points at a JSON fixture loaded on Start.
func WithSeedFile(path string) Option {
	return func(s *Service) {
		s.seedFile = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
