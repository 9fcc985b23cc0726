package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendlog/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errNotObject = errors.New("element is not an object")

// Adapter maps the domain records onto a KeyValue. Reads never fail:
// corrupt documents are logged and replaced by empty or default values.
type Adapter struct {
	kv     KeyValue
	logger *slog.Logger
	newID  func() string
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the logger used to report recovered corruption.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = l
	}
}

// WithIDGenerator replaces the UUID generator used to repair missing IDs.
func WithIDGenerator(fn func() string) AdapterOption {
	return func(a *Adapter) {
		a.newID = fn
	}
}

// NewAdapter wraps kv.
func NewAdapter(kv KeyValue, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		kv:     kv,
		logger: slog.Default().With("component", "storage"),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadEntries reads the entry collection. It never fails; see Adapter.
func (a *Adapter) LoadEntries(ctx context.Context) []model.Entry {
	raw, ok := a.read(ctx, EntriesKey)
	if !ok {
		return []model.Entry{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		a.logger.Error("Discarding unreadable expenses document", "key", EntriesKey, "error", err)
		return []model.Entry{}
	}

	entries := make([]model.Entry, 0, len(elems))
	seen := make(map[string]bool, len(elems))
	for i, elem := range elems {
		e, err := a.decodeEntry(elem, i)
		if err != nil {
			a.logger.Error("Dropping stored expense", "index", i, "error", err)
			continue
		}
		if e.ID == "" || seen[e.ID] {
			old := e.ID
			e.ID = a.newID()
			a.logger.Warn("Assigned new expense id", "index", i, "old_id", old, "id", e.ID)
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}
	return entries
}

// SaveEntries overwrites the stored collection.
func (a *Adapter) SaveEntries(ctx context.Context, entries []model.Entry) error {
	if entries == nil {
		entries = []model.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	if err := a.kv.Set(ctx, EntriesKey, string(data)); err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}
	return nil
}

// LoadSettings reads the settings record, falling back to the defaults field
// by field.
func (a *Adapter) LoadSettings(ctx context.Context) model.Settings {
	settings := model.DefaultSettings()

	raw, ok := a.read(ctx, SettingsKey)
	if !ok {
		return settings
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc == nil {
		a.logger.Error("Discarding unreadable settings document", "key", SettingsKey, "error", err)
		return settings
	}

	if s, ok := stringField(doc, "displayCurrency"); ok {
		if c, err := model.ParseCurrency(s); err == nil {
			settings.DisplayCurrency = c
		} else {
			a.logger.Warn("Ignoring stored display currency", "value", s)
		}
	}
	if s, ok := stringField(doc, "theme"); ok {
		if th, err := model.ParseTheme(s); err == nil {
			settings.Theme = th
		} else {
			a.logger.Warn("Ignoring stored theme", "value", s)
		}
	}
	return settings
}

// SaveSettings overwrites the settings record.
func (a *Adapter) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := a.kv.Set(ctx, SettingsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (a *Adapter) read(ctx context.Context, key string) (string, bool) {
	if err := validateContext(ctx); err != nil {
		a.logger.Error("Cannot read store", "key", key, "error", err)
		return "", false
	}
	raw, found, err := a.kv.Get(ctx, key)
	if err != nil {
		a.logger.Error("Failed to read store", "key", key, "error", err)
		return "", false
	}
	return raw, found
}

func (a *Adapter) decodeEntry(elem json.RawMessage, index int) (model.Entry, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(elem, &doc); err != nil || doc == nil {
		return model.Entry{}, errNotObject
	}

	dateText, _ := stringField(doc, "date")
	date, err := model.ParseDate(dateText)
	if err != nil {
		return model.Entry{}, err
	}

	e := model.Entry{
		Date:     date,
		Category: model.CategoryOther,
		Currency: model.BaseCurrency,
	}
	e.ID, _ = stringField(doc, "id")
	e.Description, _ = stringField(doc, "description")

	if s, ok := stringField(doc, "category"); ok && s != "" {
		e.Category = model.Category(s)
	}

	if s, ok := stringField(doc, "currency"); ok {
		if c, err := model.ParseCurrency(s); err == nil {
			e.Currency = c
		}
	}

	amount, ok := coerceAmount(doc["amount"])
	if !ok {
		a.logger.Warn("Coerced stored amount to zero", "index", index, "value", string(doc["amount"]))
	}
	e.Amount = model.RoundAmount(amount)
	return e, nil
}

// coerceAmount accepts JSON numbers and numeric strings within
// [0, model.MaxAmount]. Anything else yields zero and false.
func coerceAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero, false
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(text)
	}

	d, err := decimal.NewFromString(text)
	if err != nil || !model.AmountInRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

func stringField(doc map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := doc[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
