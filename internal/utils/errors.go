package utils

import (
	"fmt"
)

// UserError carries a terminal-friendly message and an optional hint about
// how to recover, wrapping the underlying cause.
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += fmt.Sprintf("\n\n💡 Hint: %s", e.Hint)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new UserError.
func NewUserError(message, hint string, err error) *UserError {
	return &UserError{
		Message: message,
		Hint:    hint,
		Err:     err,
	}
}
