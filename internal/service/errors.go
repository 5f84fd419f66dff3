package service

import "errors"

// ErrForbidden is returned when a caller holds a valid session but does not
// own the resource it is trying to touch.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed or missing input. Handlers surface the
// message verbatim with a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// ConflictError reports a booking request over dates that are not available.
// Dates lists the conflicting dates, already sorted.
type ConflictError struct {
	Dates []string
}

func (e *ConflictError) Error() string {
	return "some dates are not available"
}
