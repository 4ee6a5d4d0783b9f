package services

import "errors"

// Error kinds. Every domain error returned by a service unwraps to exactly one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a domain error with a message that is safe to show to API clients.
type Error struct {
	Kind error
	Msg  string
}

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation builds an ad-hoc validation error.
func Validation(msg string) *Error {
	return NewError(ErrValidation, msg)
}
