// Package sheets exports expenses to a Google Sheets spreadsheet.
package sheets

import (
	"errors"
	"time"
)

// Configuration errors.
var (
	ErrNoAuth           = errors.New("no authentication method configured")
	ErrMultipleAuth     = errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrInvalidRetry     = errors.New("retry settings cannot be negative")
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	SheetName          string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  "Expenses",
		SheetName:        "Expenses",
		EnableFormatting: true,
		TimeZone:         "UTC",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// HasOAuth reports whether OAuth2 client credentials plus a refresh token or
// a token file are configured.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.HasOAuth()
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return ErrNoAuth
	}
	if hasOAuth && hasServiceAccount {
		return ErrMultipleAuth
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.RetryAttempts < 0 || c.RetryDelay < 0 {
		return ErrInvalidRetry
	}
	return nil
}
