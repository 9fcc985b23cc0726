// Package service defines the interfaces shared between the application's
// layers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spendlog/internal/model"
)

// Store persists the entry collection and the settings record. Loads never
// fail: corrupt or missing data yields an empty collection or the defaults.
type Store interface {
	LoadEntries(ctx context.Context) []model.Entry
	SaveEntries(ctx context.Context, entries []model.Entry) error
	LoadSettings(ctx context.Context) model.Settings
	SaveSettings(ctx context.Context, settings model.Settings) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
