package availability

import "errors"

var (
	// ErrInvalidWindow is returned when startDate is not strictly before
	// endDate.
	ErrInvalidWindow = errors.New("startDate must be before endDate")

	// ErrNoAvailableDays is returned when the weekday set is empty.
	ErrNoAvailableDays = errors.New("availableDays must not be empty")

	// ErrInvalidTimeSlot is returned when a time slot is malformed or its
	// start is not before its end.
	ErrInvalidTimeSlot = errors.New("invalid time slot")

	// ErrInvalidRecurrence is returned for an unknown recurrence pattern.
	ErrInvalidRecurrence = errors.New("invalid recurrence pattern")

	// ErrOverlap is returned when an active availability window of the same
	// listing overlaps the requested one.
	ErrOverlap = errors.New("overlapping active availability window")

	// ErrNotFound is returned when an availability id does not resolve.
	ErrNotFound = errors.New("availability not found")
)
