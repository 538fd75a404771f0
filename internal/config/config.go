// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory badge recompute queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the pending-job coalescing cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxScheduleDay caps the ?day query on schedule reads.
	MaxScheduleDay int `koanf:"max_schedule_day"`

	// MaxLanes caps grid width; 0 means unbounded.
	MaxLanes int `koanf:"max_lanes"`

	// IncludePreShow opts pre-show scenes into conflict detection.
	IncludePreShow bool `koanf:"include_pre_show"`

	// SeedFile optionally points at a JSON fixture loaded at startup.
	SeedFile string `koanf:"seed_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		QueueSize:      1024,
		WorkerCount:    runtime.NumCPU(),
		DedupeSize:     4096,
		MaxScheduleDay: 14,
		MaxLanes:       0,
		IncludePreShow: false,
		SeedFile:       "",
	}
}
