// Package storage provides the data persistence layer for spend.
package storage

import (
	"context"
	"errors"
)

// Keys of the two persisted records.
const (
	EntriesKey  = "expense-tracker:expenses"
	SettingsKey = "expense-tracker:settings"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// KeyValue is a string-keyed document store.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
