package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDuplicate             = errors.New("resource already exists")
	ErrStationNotFound       = errors.New("referenced station not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
