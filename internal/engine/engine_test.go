package engine

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/export"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/Veraticus/spendlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, store *testutil.TestStore) *Controller {
	t.Helper()
	n := 0
	return New(context.Background(), store,
		WithClock(testutil.FixedClock(testutil.Now)),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%02d", n)
		}),
	)
}

func metroInput() Input {
	return Input{Date: "2024-12-05", Category: "Transport", Description: "  Metro card ", Amount: "25"}
}

func TestController_Add(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	c := newController(t, store)

	e, err := c.Add(ctx, metroInput())
	require.NoError(t, err)
	assert.Equal(t, "id-01", e.ID)
	assert.Equal(t, "Metro card", e.Description)
	assert.Equal(t, "25.00", e.Amount.StringFixed(2))
	assert.Equal(t, model.USD, e.Currency, "blank currency takes the display currency")

	persisted := store.Reload()
	require.Len(t, persisted, 1)
	assert.Equal(t, e.ID, persisted[0].ID)

	v := c.View()
	assert.False(t, v.Empty)
	assert.Equal(t, 1, v.Summary.CountFiltered)
	assert.Equal(t, "25.00", v.Summary.TotalAll.StringFixed(2))
}

func TestController_AddUsesDisplayCurrency(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t).WithSettings(model.Settings{DisplayCurrency: model.GBP, Theme: model.ThemeLight})
	c := newController(t, store)

	e, err := c.Add(ctx, metroInput())
	require.NoError(t, err)
	assert.Equal(t, model.GBP, e.Currency)
}

func TestController_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  error
		field string
	}{
		{name: "missing date", input: Input{Category: "Food", Description: "x", Amount: "1"}, want: model.ErrInvalidDate, field: "date"},
		{name: "impossible date", input: Input{Date: "2024-02-30", Category: "Food", Description: "x", Amount: "1"}, want: model.ErrInvalidDate, field: "date"},
		{name: "future date", input: Input{Date: "2024-12-11", Category: "Food", Description: "x", Amount: "1"}, want: model.ErrFutureDate, field: "date"},
		{name: "unknown category", input: Input{Date: "2024-12-01", Category: "Pets", Description: "x", Amount: "1"}, want: model.ErrInvalidCategory, field: "category"},
		{name: "blank description", input: Input{Date: "2024-12-01", Category: "Food", Description: "   ", Amount: "1"}, want: model.ErrEmptyDescription, field: "description"},
		{name: "long description", input: Input{Date: "2024-12-01", Category: "Food", Description: strings.Repeat("x", 201), Amount: "1"}, want: model.ErrDescriptionTooLong, field: "description"},
		{name: "non numeric amount", input: Input{Date: "2024-12-01", Category: "Food", Description: "x", Amount: "abc"}, want: model.ErrInvalidAmount, field: "amount"},
		{name: "negative amount", input: Input{Date: "2024-12-01", Category: "Food", Description: "x", Amount: "-1"}, want: model.ErrNegativeAmount, field: "amount"},
		{name: "unsupported currency", input: Input{Date: "2024-12-01", Category: "Food", Description: "x", Amount: "1", Currency: "BTC"}, want: model.ErrUnsupportedCurrency, field: "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.SetupTestStore(t)
			c := newController(t, store)

			_, err := c.Add(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)

			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			assert.Empty(t, c.State().Entries)
			assert.Equal(t, 0, store.Writes(), "nothing is persisted on validation failure")
		})
	}
}

func TestController_AddToday(t *testing.T) {
	c := newController(t, testutil.SetupTestStore(t))
	in := metroInput()
	in.Date = c.Today().String()
	_, err := c.Add(context.Background(), in)
	assert.NoError(t, err)
}

func TestController_Edit(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t).WithEntries(testutil.SampleEntries()...)
	c := newController(t, store)

	before := c.State().Entries
	e, err := c.Edit(ctx, "rent", Input{Date: "2024-12-02", Category: "housing", Description: "Rent (December)", Amount: "1250.5", Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "rent", e.ID)
	assert.Equal(t, model.CategoryHousing, e.Category)

	after := c.State().Entries
	require.Len(t, after, len(before))
	assert.Equal(t, before[2].ID, after[2].ID, "position is preserved")
	assert.Equal(t, "1250.50", after[2].Amount.StringFixed(2))
	assert.Equal(t, "Rent (December)", store.Reload()[2].Description)

	_, err = c.Edit(ctx, "missing", metroInput())
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = c.Edit(ctx, "rent", Input{Date: "2024-12-02", Category: "Housing", Description: "Rent", Amount: "-3"})
	assert.ErrorIs(t, err, model.ErrNegativeAmount)
	assert.Equal(t, "1250.50", c.State().Entries[2].Amount.StringFixed(2))
}

func TestController_EditMerge(t *testing.T) {
	ctx := context.Background()
	c := newController(t, testutil.SetupTestStore(t).WithEntries(testutil.MetroCard()))

	existing, ok := c.Get("metro")
	require.True(t, ok)

	e, err := c.Edit(ctx, "metro", InputOf(existing).Merge(Input{Amount: "30"}))
	require.NoError(t, err)
	assert.Equal(t, "30.00", e.Amount.StringFixed(2))
	assert.Equal(t, "Metro card", e.Description)
	assert.Equal(t, existing.Date, e.Date)
	assert.Equal(t, model.USD, e.Currency)
}

func TestController_Delete(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t).WithEntries(testutil.MetroCard())
	c := newController(t, store)

	require.NoError(t, c.Delete(ctx, "metro"))
	v := c.View()
	assert.True(t, v.Empty)
	assert.Empty(t, v.Rows)
	assert.Equal(t, 0, v.Summary.CountFiltered)
	assert.Empty(t, store.Reload())

	assert.ErrorIs(t, c.Delete(ctx, "metro"), common.ErrNotFound)
}

func TestController_ClearAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection is a no-op", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		c := newController(t, store)
		require.NoError(t, c.ClearAll(ctx, false))
		assert.Equal(t, 0, store.Writes())
	})

	t.Run("requires confirmation", func(t *testing.T) {
		store := testutil.SetupTestStore(t).WithEntries(testutil.SampleEntries()...)
		c := newController(t, store)
		assert.ErrorIs(t, c.ClearAll(ctx, false), common.ErrConfirmationRequired)
		assert.Len(t, c.State().Entries, 4)
	})

	t.Run("confirmed", func(t *testing.T) {
		store := testutil.SetupTestStore(t).WithEntries(testutil.SampleEntries()...)
		c := newController(t, store)
		require.NoError(t, c.ClearAll(ctx, true))
		assert.Empty(t, c.State().Entries)
		assert.Empty(t, store.Reload())
	})
}

func TestController_RollbackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t).WithEntries(testutil.MetroCard())
	c := newController(t, store)
	store.FailWrites(true)

	_, err := c.Add(ctx, metroInput())
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Len(t, c.State().Entries, 1)

	_, err = c.Edit(ctx, "metro", InputOf(testutil.MetroCard()).Merge(Input{Amount: "99"}))
	assert.ErrorIs(t, err, testutil.ErrInjected)
	got, _ := c.Get("metro")
	assert.Equal(t, "25.00", got.Amount.StringFixed(2))

	assert.ErrorIs(t, c.Delete(ctx, "metro"), testutil.ErrInjected)
	assert.ErrorIs(t, c.ClearAll(ctx, true), testutil.ErrInjected)
	assert.Len(t, c.State().Entries, 1)

	assert.ErrorIs(t, c.SetDisplayCurrency(ctx, "EUR"), testutil.ErrInjected)
	assert.Equal(t, model.USD, c.State().Settings.DisplayCurrency)

	theme, err := c.ToggleTheme(ctx)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, model.ThemeLight, theme)
}

func TestController_Settings(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t).WithEntries(testutil.MetroCard())
	c := newController(t, store)

	assert.Equal(t, "$25.00", formatTotal(c.View()))

	require.NoError(t, c.SetDisplayCurrency(ctx, "eur"))
	v := c.View()
	assert.Equal(t, model.EUR, v.DisplayCurrency)
	assert.Equal(t, "23.25", v.Summary.TotalAll.StringFixed(2))
	assert.Equal(t, "€23.25", formatTotal(v))

	assert.ErrorIs(t, c.SetDisplayCurrency(ctx, "XYZ"), model.ErrUnsupportedCurrency)
	assert.Equal(t, model.EUR, c.State().Settings.DisplayCurrency)

	theme, err := c.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, theme)
	assert.ErrorIs(t, c.SetTheme(ctx, "sepia"), model.ErrInvalidTheme)
	require.NoError(t, c.SetTheme(ctx, "light"))

	assert.Equal(t, model.Settings{DisplayCurrency: model.EUR, Theme: model.ThemeLight}, store.LoadSettings(ctx))
}

func TestController_FilterSortView(t *testing.T) {
	c := newController(t, testutil.SetupTestStore(t).WithEntries(testutil.SampleEntries()...))

	v := c.View()
	assert.Equal(t, []string{"metro", "rent", "groceries", "coffee"}, rowIDs(v), "default is newest first")

	c.ToggleSort(pipeline.SortByAmount)
	assert.Equal(t, []string{"coffee", "metro", "groceries", "rent"}, rowIDs(c.View()))

	c.SetCriteria(pipeline.Criteria{Category: model.CategoryFood})
	v = c.View()
	assert.Equal(t, []string{"coffee", "groceries"}, rowIDs(v))
	assert.Equal(t, 2, v.Summary.CountFiltered)
	assert.True(t, v.Summary.TotalFiltered.LessThan(v.Summary.TotalAll))

	c.ApplyQuickRange(pipeline.RangeThisMonth)
	v = c.View()
	assert.True(t, v.Empty)
	assert.Equal(t, model.CategoryFood, v.Criteria.Category)

	c.SetCriteria(pipeline.Criteria{})
	c.ApplyQuickRange(pipeline.RangeLastMonth)
	assert.Equal(t, []string{"groceries"}, rowIDs(c.View()))
}

func TestController_Export(t *testing.T) {
	c := newController(t, testutil.SetupTestStore(t).WithEntries(testutil.MetroCard()))

	var buf bytes.Buffer
	require.NoError(t, c.Export(&buf, export.CSVOptions{}))
	assert.Equal(t, "\"Date\",\"Category\",\"Description\",\"Amount\"\r\n\"2024-12-05\",\"Transport\",\"Metro card\",\"25.00\"", buf.String())

	c.SetCriteria(pipeline.Criteria{Search: "nothing like this"})
	buf.Reset()
	assert.ErrorIs(t, c.Export(&buf, export.CSVOptions{}), common.ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestController_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		c := newController(t, store)
		n, err := c.Seed(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, n, len(store.Reload()))

		today := c.Today()
		oldest := model.NewDate(today.Year(), today.Month()-5, 1)
		for _, e := range c.State().Entries {
			require.NoError(t, e.Validate(today))
			assert.False(t, e.Date.Before(oldest), e.Date.String())
		}
	})

	t.Run("existing entries need confirmation", func(t *testing.T) {
		store := testutil.SetupTestStore(t).WithEntries(testutil.MetroCard())
		c := newController(t, store)
		_, err := c.Seed(ctx, false)
		assert.ErrorIs(t, err, common.ErrConfirmationRequired)

		_, err = c.Seed(ctx, true)
		require.NoError(t, err)
		_, ok := c.Get("metro")
		assert.False(t, ok)
	})
}

func TestController_Import(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t).WithEntries(testutil.MetroCard())
	c := newController(t, store)

	candidates := []Input{
		{Date: "2024-12-05", Category: "Transport", Description: "Metro card", Amount: "25.00", Currency: "USD"},
		{Date: "2024-12-07", Category: "Food", Description: "Bakery", Amount: "6.20", Currency: "EUR"},
		{Date: "2024-12-07", Category: "Food", Description: "Bakery", Amount: "6.2", Currency: "EUR"},
		{Date: "2025-01-01", Category: "Food", Description: "Future", Amount: "1"},
	}

	dry, err := c.Import(ctx, candidates, true)
	require.NoError(t, err)
	assert.Len(t, dry.Added, 1)
	assert.Equal(t, 2, dry.Duplicates)
	require.Len(t, dry.Rejected, 1)
	assert.ErrorIs(t, dry.Rejected[0].Err, model.ErrFutureDate)
	assert.Len(t, c.State().Entries, 1)

	res, err := c.Import(ctx, candidates, false)
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "Bakery", res.Added[0].Description)
	assert.Len(t, store.Reload(), 2)

	again, err := c.Import(ctx, candidates, false)
	require.NoError(t, err)
	assert.Empty(t, again.Added)
	assert.Equal(t, 3, again.Duplicates)
}

func TestInputMerge(t *testing.T) {
	base := Input{Date: "2024-01-01", Category: "Food", Description: "a", Amount: "1", Currency: "USD"}
	got := base.Merge(Input{Description: "b", Currency: " "})
	assert.Equal(t, Input{Date: "2024-01-01", Category: "Food", Description: "b", Amount: "1", Currency: "USD"}, got)
}

func rowIDs(v View) []string {
	out := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Entry.ID
	}
	return out
}
