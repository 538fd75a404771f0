package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrBadReference  = errors.New("referenced record does not exist")
	ErrInvalidRecord = errors.New("invalid record")
	ErrTokenTaken    = errors.New("portal token already in use")
)
