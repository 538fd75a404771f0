package service

import "errors"

// Sentinel kinds for service-level validation errors.
var (
	ErrBadDuration = errors.New("duration must be positive")
	ErrBadDay      = errors.New("day number must be positive")
)
