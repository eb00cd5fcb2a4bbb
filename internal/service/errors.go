package service

import "errors"

var (
	// ErrDuplicateEmail means the normalized email is already
	// registered, whether caught by the advisory pre-check or by the
	// store's unique index at write time.
	ErrDuplicateEmail = errors.New("email already registered for the event")
)

// ValidationError is a client-fixable rejection carrying the ordered
// field-level messages. MissingFields distinguishes absent fields from
// present-but-invalid ones for the response wording.
type ValidationError struct {
	MissingFields bool
	Details       []string
}

func (e *ValidationError) Error() string {
	if e.MissingFields {
		return "missing required fields"
	}
	return "validation failed"
}
