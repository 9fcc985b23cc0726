// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength bounds entry descriptions, in characters.
const MaxDescriptionLength = 200

// Entry is one recorded expense.
type Entry struct {
	Date        Date
	ID          string
	Category    Category
	Description string
	Currency    Currency
	Amount      decimal.Decimal
}

// wireEntry is the persisted JSON shape of an Entry.
type wireEntry struct {
	ID          string      `json:"id"`
	Date        Date        `json:"date"`
	Category    Category    `json:"category"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Currency    Currency    `json:"currency"`
}

// MarshalJSON writes the amount as a JSON number with two fractional digits.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEntry{
		ID:          e.ID,
		Date:        e.Date,
		Category:    e.Category,
		Description: e.Description,
		Amount:      json.Number(e.Amount.StringFixed(AmountPlaces)),
		Currency:    e.Currency,
	})
}

// Validate checks the entry invariants. today bounds the date from above.
func (e Entry) Validate(today Date) error {
	if e.Date.IsZero() {
		return NewValidationError("date", ErrInvalidDate)
	}
	if e.Date.After(today) {
		return NewValidationError("date", ErrFutureDate)
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return NewValidationError("category", err)
	}
	if strings.TrimSpace(e.Description) == "" {
		return NewValidationError("description", ErrEmptyDescription)
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return NewValidationError("description", ErrDescriptionTooLong)
	}
	if e.Amount.IsNegative() {
		return NewValidationError("amount", ErrNegativeAmount)
	}
	if e.Amount.GreaterThan(MaxAmount) {
		return NewValidationError("amount", ErrInvalidAmount)
	}
	if !e.Currency.Supported() {
		return NewValidationError("currency", ErrUnsupportedCurrency)
	}
	return nil
}
