package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRequestCompleted   = errors.New("request already completed")
)

// ValidationError is bad caller input. Handlers answer it with 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
