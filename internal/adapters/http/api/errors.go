package api

import (
	"errors"
	"fmt"

	repository "github.com/okian/greenroom/internal/adapters/repository"
	service "github.com/okian/greenroom/internal/app"
	"github.com/okian/greenroom/internal/domain/conflict"
	"github.com/okian/greenroom/internal/domain/lanes"
	"github.com/okian/greenroom/internal/domain/wallclock"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// validationKinds are upstream errors translated to 400 responses.
var validationKinds = []error{
	ErrBadRequest,
	wallclock.ErrBadClock,
	lanes.ErrBadDuration,
	lanes.ErrLaneOverflow,
	conflict.ErrBadDuration,
	service.ErrBadDuration,
	service.ErrBadDay,
	repository.ErrBadReference,
	repository.ErrInvalidRecord,
	repository.ErrTokenTaken,
}

// notFoundKinds are upstream errors translated to 404 responses.
var notFoundKinds = []error{
	repository.ErrNotFound,
}

// NewKind tags a sentinel kind with the operation that hit it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel kind and its cause with the operation.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}

// Wrap tags an upstream error with the operation that hit it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
