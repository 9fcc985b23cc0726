// Package testutil provides shared fixtures for spend's tests: an in-memory
// store that can be told to fail, a fixed clock and an entry builder.
package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/storage"
)

// ErrInjected is returned by a TestStore whose writes have been disabled.
var ErrInjected = errors.New("injected write failure")

// FlakyKV wraps a MemoryKV and fails writes on demand.
type FlakyKV struct {
	*storage.MemoryKV
	mu     sync.Mutex
	fail   bool
	writes int
}

// Set records the write and fails with ErrInjected when writes are disabled.
func (f *FlakyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	fail := f.fail
	f.writes++
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.MemoryKV.Set(ctx, key, value)
}

// TestStore is a storage.Adapter over a FlakyKV.
type TestStore struct {
	*storage.Adapter
	KV *FlakyKV
	t  *testing.T
}

// SetupTestStore creates an empty in-memory store. Storage logs are
// discarded.
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	kv := &FlakyKV{MemoryKV: storage.NewMemoryKV()}
	t.Cleanup(func() { _ = kv.Close() })

	return &TestStore{
		Adapter: storage.NewAdapter(kv, storage.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))),
		KV:      kv,
		t:       t,
	}
}

// WithEntries persists entries and returns the store.
func (s *TestStore) WithEntries(entries ...model.Entry) *TestStore {
	s.t.Helper()
	if err := s.SaveEntries(context.Background(), entries); err != nil {
		s.t.Fatalf("failed to seed entries: %v", err)
	}
	return s
}

// WithSettings persists settings and returns the store.
func (s *TestStore) WithSettings(settings model.Settings) *TestStore {
	s.t.Helper()
	if err := s.SaveSettings(context.Background(), settings); err != nil {
		s.t.Fatalf("failed to seed settings: %v", err)
	}
	return s
}

// WithRaw stores a raw document under key, bypassing the adapter.
func (s *TestStore) WithRaw(key, value string) *TestStore {
	s.t.Helper()
	if err := s.KV.MemoryKV.Set(context.Background(), key, value); err != nil {
		s.t.Fatalf("failed to seed %s: %v", key, err)
	}
	return s
}

// FailWrites makes every later write fail with ErrInjected, or succeed again.
func (s *TestStore) FailWrites(fail bool) {
	s.KV.mu.Lock()
	defer s.KV.mu.Unlock()
	s.KV.fail = fail
}

// Writes returns the number of write attempts so far.
func (s *TestStore) Writes() int {
	s.KV.mu.Lock()
	defer s.KV.mu.Unlock()
	return s.KV.writes
}

// Reload reads the persisted collection back through a fresh load.
func (s *TestStore) Reload() []model.Entry {
	return s.LoadEntries(context.Background())
}
