package domain

import "errors"

var (
	// ErrServiceNotFound signals a missing service.
	ErrServiceNotFound = errors.New("service not found")
	// ErrFilterNotSupported signals an unrecognized filter key in a listing request.
	ErrFilterNotSupported = errors.New("filter not supported")
	// ErrSortNotSupported signals an unrecognized sort key in a listing request.
	ErrSortNotSupported = errors.New("sort not supported")
	// ErrBadSortReverse signals a non-boolean reverse flag in a sort spec.
	ErrBadSortReverse = errors.New("reverse must be a boolean")
	// ErrValidation signals a malformed request value.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden signals an actor touching a resource it does not own.
	ErrForbidden = errors.New("not enough privileges")
)
