// Package engine owns the expense collection and the user's settings. It
// validates and applies every mutation, persists it, and recomputes the
// derived view on demand.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/Veraticus/spendlog/internal/service"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// State is everything the view is derived from.
type State struct {
	Entries  []model.Entry
	Settings model.Settings
	Criteria pipeline.Criteria
	Sort     pipeline.SortState
}

// Controller applies user actions to the state.
type Controller struct {
	store  service.Store
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
	state  State
	locale language.Tag
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// WithLocale sets the collation locale used to sort categories.
func WithLocale(tag language.Tag) Option {
	return func(c *Controller) {
		c.locale = tag
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New loads the stored entries and settings and returns a controller over
// them.
func New(ctx context.Context, store service.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default().With("component", "engine"),
		locale: language.English,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.state = State{
		Entries:  store.LoadEntries(ctx),
		Settings: store.LoadSettings(ctx),
		Sort:     pipeline.DefaultSort,
	}
	c.logger.Debug("Loaded expenses", "count", len(c.state.Entries))
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Entries = slices.Clone(c.state.Entries)
	return s
}

// Today is the controller clock's calendar date.
func (c *Controller) Today() model.Date {
	return model.DateOf(c.now())
}

// Get returns the entry with id.
func (c *Controller) Get(id string) (model.Entry, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return model.Entry{}, false
	}
	return c.state.Entries[i], true
}

// Add validates in and appends the new entry.
func (c *Controller) Add(ctx context.Context, in Input) (model.Entry, error) {
	e, err := c.build(in)
	if err != nil {
		return model.Entry{}, err
	}
	e.ID = c.newID()

	next := append(slices.Clone(c.state.Entries), e)
	if err := c.commit(ctx, next); err != nil {
		return model.Entry{}, err
	}
	c.logger.Info("Added expense", "id", e.ID, "category", e.Category, "amount", e.Amount.StringFixed(2))
	return e, nil
}

// Edit replaces the entry with id, keeping its ID and position.
func (c *Controller) Edit(ctx context.Context, id string, in Input) (model.Entry, error) {
	i := c.indexOf(id)
	if i < 0 {
		return model.Entry{}, fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}

	e, err := c.build(in)
	if err != nil {
		return model.Entry{}, err
	}
	e.ID = id

	next := slices.Clone(c.state.Entries)
	next[i] = e
	if err := c.commit(ctx, next); err != nil {
		return model.Entry{}, err
	}
	c.logger.Info("Edited expense", "id", id)
	return e, nil
}

// Delete removes the entry with id.
func (c *Controller) Delete(ctx context.Context, id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}

	next := slices.Delete(slices.Clone(c.state.Entries), i, i+1)
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.logger.Info("Deleted expense", "id", id)
	return nil
}

// ClearAll removes every entry. It does nothing on an empty collection and
// requires confirmation otherwise.
func (c *Controller) ClearAll(ctx context.Context, confirmed bool) error {
	if len(c.state.Entries) == 0 {
		return nil
	}
	if !confirmed {
		return common.ErrConfirmationRequired
	}
	if err := c.commit(ctx, []model.Entry{}); err != nil {
		return err
	}
	c.logger.Info("Cleared all expenses")
	return nil
}

// SetDisplayCurrency changes the currency aggregates are shown in.
func (c *Controller) SetDisplayCurrency(ctx context.Context, code string) error {
	cur, err := model.ParseCurrency(code)
	if err != nil {
		return model.NewValidationError("currency", fmt.Errorf("%w: %q", err, code))
	}
	next := c.state.Settings
	next.DisplayCurrency = cur
	return c.commitSettings(ctx, next)
}

// SetTheme selects a theme.
func (c *Controller) SetTheme(ctx context.Context, theme string) error {
	th, err := model.ParseTheme(theme)
	if err != nil {
		return model.NewValidationError("theme", fmt.Errorf("%w: %q", err, theme))
	}
	next := c.state.Settings
	next.Theme = th
	return c.commitSettings(ctx, next)
}

// ToggleTheme flips between light and dark.
func (c *Controller) ToggleTheme(ctx context.Context) (model.Theme, error) {
	next := c.state.Settings
	next.Theme = next.Theme.Toggle()
	if err := c.commitSettings(ctx, next); err != nil {
		return c.state.Settings.Theme, err
	}
	return next.Theme, nil
}

// SetCriteria replaces the filter.
func (c *Controller) SetCriteria(criteria pipeline.Criteria) {
	c.state.Criteria = criteria
}

// ApplyQuickRange sets the filter's date bounds to a preset window.
func (c *Controller) ApplyQuickRange(r pipeline.QuickRange) {
	c.state.Criteria = r.Apply(c.state.Criteria, c.now())
}

// ToggleSort selects a sort column.
func (c *Controller) ToggleSort(field pipeline.SortField) pipeline.SortState {
	c.state.Sort = c.state.Sort.Toggle(field)
	return c.state.Sort
}

// SetSort replaces the sort state.
func (c *Controller) SetSort(s pipeline.SortState) {
	c.state.Sort = s
}

// commit persists next and only then makes it current.
func (c *Controller) commit(ctx context.Context, next []model.Entry) error {
	if err := c.store.SaveEntries(ctx, next); err != nil {
		common.LogError(err, "Failed to persist expenses", common.Fields{"component": "engine"})
		return fmt.Errorf("failed to persist expenses: %w", err)
	}
	c.state.Entries = next
	return nil
}

func (c *Controller) commitSettings(ctx context.Context, next model.Settings) error {
	if err := c.store.SaveSettings(ctx, next); err != nil {
		common.LogError(err, "Failed to persist settings", common.Fields{"component": "engine"})
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	c.state.Settings = next
	return nil
}

func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.state.Entries, func(e model.Entry) bool {
		return e.ID == id
	})
}
