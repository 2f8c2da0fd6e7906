package matching

import "errors"

var (
	// ErrCategoryNotFound is returned when the requested category id does
	// not resolve to an existing, active category.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrMatchNotFound is returned when a match request id does not resolve.
	ErrMatchNotFound = errors.New("match request not found")

	// ErrInvalidOrigin is returned when the query point is malformed.
	ErrInvalidOrigin = errors.New("invalid origin point")
)
