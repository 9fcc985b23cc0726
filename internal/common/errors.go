// Package common holds the error types, logging setup and retry helper shared
// by the commands and the Sheets writer.
package common

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("expense not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNothingToExport      = errors.New("nothing to export")

	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the terminal alongside the cause.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a message for the user. err may be nil.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}

// Message returns the text to show for err: the outermost UserError when
// there is one, otherwise err itself.
func Message(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Error()
	}
	return err.Error()
}

type temporary interface {
	Temporary() bool
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	var tmp temporary
	switch {
	case errors.Is(err, ErrRateLimit), errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.As(err, &tmp):
		return tmp.Temporary()
	default:
		return false
	}
}
