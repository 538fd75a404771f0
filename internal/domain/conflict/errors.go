package conflict

import "errors"

// Sentinel kinds for conflict detection errors.
var (
	ErrBadDuration = errors.New("scene duration must be positive")
)
