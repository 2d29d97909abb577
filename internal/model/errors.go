package model

import "errors"

// Common errors used across the application
var (
	// Local storage errors
	ErrKeyNotFound = errors.New("key not found")

	// Session precondition errors
	ErrNoRoom   = errors.New("not in a room")
	ErrNoPlayer = errors.New("no player in this room")

	// Input errors
	ErrEmptyRoomCode = errors.New("enter a room code")
	ErrEmptyYear     = errors.New("enter a year")
	ErrInvalidYear   = errors.New("invalid year")

	// Response errors
	ErrMalformedResponse = errors.New("malformed server response")
)

// ValidationError is a local input or precondition failure.
// No request is sent when a command fails validation.
type ValidationError struct {
	Action string
	Err    error
}

// NewValidationError creates a ValidationError for the given action
func NewValidationError(action string, err error) *ValidationError {
	return &ValidationError{Action: action, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation returns true if err is or wraps a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
