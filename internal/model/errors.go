package model

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrFutureDate          = errors.New("date is in the future")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidTheme        = errors.New("invalid theme")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err for the named field.
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
