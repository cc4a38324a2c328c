package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the terminal has no valid backend session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalid marks errors caused by bad caller input.
	ErrInvalid = errors.New("invalid input")
)

type invalidError struct {
	msg string
}

func (e invalidError) Error() string { return e.msg }

func (e invalidError) Is(target error) bool { return target == ErrInvalid }

// Invalid returns an input error with msg as its text that matches ErrInvalid.
func Invalid(msg string) error {
	return invalidError{msg: msg}
}
