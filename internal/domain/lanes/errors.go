package lanes

import "errors"

// Sentinel kinds for lane allocation errors.
var (
	ErrBadDuration  = errors.New("event duration must be positive")
	ErrLaneOverflow = errors.New("lane limit exceeded")
)
