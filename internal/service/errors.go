package service

import "errors"

// Error kinds. Handlers map each kind onto an HTTP status; anything that is
// not one of these is an internal error.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Error is a classified failure with a message that is safe to show clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrPasswordTooShort   = newError(ErrValidation, "Password must be at least 6 characters")
	ErrPasswordTooLong    = newError(ErrValidation, "Password must be 72 characters or less")
	ErrEmailTaken         = newError(ErrConflict, "Email already registered")
	ErrInvalidCredentials = newError(ErrUnauthorized, "Incorrect email or password")
	ErrInvalidToken       = newError(ErrUnauthorized, "Could not validate credentials")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrEventNotFound      = newError(ErrNotFound, "Event not found")
	ErrEndBeforeStart     = newError(ErrValidation, "end_time must be after start_time")
)
