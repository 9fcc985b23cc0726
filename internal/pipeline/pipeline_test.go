package pipeline

import (
	"testing"
	"time"

	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, date string, cat model.Category, desc, amount string, cur model.Currency) model.Entry {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.Entry{
		ID:          id,
		Date:        d,
		Category:    cat,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Currency:    cur,
	}
}

func sample() []model.Entry {
	return []model.Entry{
		entry("a", "2024-12-05", model.CategoryTransport, "Metro card", "25.00", model.USD),
		entry("b", "2024-11-20", model.CategoryFood, "Groceries at market", "62.40", model.EUR),
		entry("c", "2024-12-01", model.CategoryHousing, "Rent", "1200.00", model.USD),
		entry("d", "2024-10-15", model.CategoryFood, "Coffee", "4.50", model.GBP),
		entry("e", "2024-12-05", model.CategoryEntertainment, "Cinema tickets", "3000", model.JPY),
	}
}

func ids(entries []model.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func datePtr(s string) *model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "no criteria", criteria: Criteria{}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "from inclusive", criteria: Criteria{From: datePtr("2024-12-01")}, want: []string{"a", "c", "e"}},
		{name: "to inclusive", criteria: Criteria{To: datePtr("2024-11-20")}, want: []string{"b", "d"}},
		{name: "range", criteria: Criteria{From: datePtr("2024-11-01"), To: datePtr("2024-12-01")}, want: []string{"b", "c"}},
		{name: "category", criteria: Criteria{Category: model.CategoryFood}, want: []string{"b", "d"}},
		{name: "search case insensitive", criteria: Criteria{Search: "  METRO "}, want: []string{"a"}},
		{name: "whitespace search ignored", criteria: Criteria{Search: "   "}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "combined", criteria: Criteria{Category: model.CategoryFood, Search: "coffee"}, want: []string{"d"}},
		{name: "from after everything", criteria: Criteria{From: datePtr("2025-01-01")}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sample(), tt.criteria)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterIsPure(t *testing.T) {
	in := sample()
	before := ids(in)
	c := Criteria{Category: model.CategoryFood}

	first := Filter(in, c)
	second := Filter(in, c)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, before, ids(in))
}

func TestCriteriaIsZero(t *testing.T) {
	assert.True(t, Criteria{}.IsZero())
	assert.True(t, Criteria{Search: " "}.IsZero())
	assert.False(t, Criteria{Category: model.CategoryFood}.IsZero())
	assert.False(t, Criteria{From: datePtr("2024-01-01")}.IsZero())
}

func TestQuickRange(t *testing.T) {
	now := time.Date(2024, time.March, 14, 18, 30, 0, 0, time.UTC)
	base := Criteria{Category: model.CategoryFood, Search: "x"}

	tests := []struct {
		r        QuickRange
		from, to string
	}{
		{RangeThisMonth, "2024-03-01", "2024-03-31"},
		{RangeLastMonth, "2024-02-01", "2024-02-29"},
		{RangeThisYear, "2024-01-01", "2024-12-31"},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			got := tt.r.Apply(base, now)
			require.NotNil(t, got.From)
			require.NotNil(t, got.To)
			assert.Equal(t, tt.from, got.From.String())
			assert.Equal(t, tt.to, got.To.String())
			assert.Equal(t, model.CategoryFood, got.Category)
			assert.Equal(t, "x", got.Search)
		})
	}

	t.Run("last month across year boundary", func(t *testing.T) {
		got := RangeLastMonth.Apply(Criteria{}, time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, "2024-12-01", got.From.String())
		assert.Equal(t, "2024-12-31", got.To.String())
	})

	t.Run("clear", func(t *testing.T) {
		c := RangeThisYear.Apply(base, now)
		got := RangeClear.Apply(c, now)
		assert.Nil(t, got.From)
		assert.Nil(t, got.To)
		assert.Equal(t, model.CategoryFood, got.Category)
	})
}

func TestParseQuickRange(t *testing.T) {
	r, ok := ParseQuickRange("last-month")
	assert.True(t, ok)
	assert.Equal(t, RangeLastMonth, r)

	_, ok = ParseQuickRange("last-week")
	assert.False(t, ok)
}

func TestSortStateToggle(t *testing.T) {
	s := DefaultSort
	assert.Equal(t, SortState{Field: SortByDate, Direction: Descending}, s)

	s = s.Toggle(SortByDate)
	assert.Equal(t, Ascending, s.Direction)

	s = s.Toggle(SortByDate)
	assert.Equal(t, Descending, s.Direction)

	s = s.Toggle(SortByAmount)
	assert.Equal(t, SortState{Field: SortByAmount, Direction: Ascending}, s)

	s = s.Toggle(SortByAmount)
	assert.Equal(t, SortState{Field: SortByAmount, Direction: Descending}, s)
}

func TestSort(t *testing.T) {
	conv := currency.NewConverter(model.USD)

	tests := []struct {
		name  string
		state SortState
		want  []string
	}{
		// a and e share a date; the ID breaks the tie in both directions.
		{name: "date asc", state: SortState{SortByDate, Ascending}, want: []string{"d", "b", "c", "a", "e"}},
		{name: "date desc", state: SortState{SortByDate, Descending}, want: []string{"a", "e", "c", "b", "d"}},
		{name: "category asc", state: SortState{SortByCategory, Ascending}, want: []string{"e", "b", "d", "c", "a"}},
		// 62.40 EUR is ~67.10 USD, 4.50 GBP ~5.70 USD, 3000 JPY ~20.07 USD.
		{name: "amount asc", state: SortState{SortByAmount, Ascending}, want: []string{"d", "e", "a", "b", "c"}},
		{name: "amount desc", state: SortState{SortByAmount, Descending}, want: []string{"c", "b", "a", "e", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sample()
			got := Sort(in, tt.state, conv)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(in), "input must not be reordered")
		})
	}
}

func TestSortDoesNotChangeMembership(t *testing.T) {
	conv := currency.NewConverter(model.EUR)
	filtered := Filter(sample(), Criteria{From: datePtr("2024-11-01")})

	for _, f := range SortFields {
		for _, d := range []Direction{Ascending, Descending} {
			got := Sort(filtered, SortState{Field: f, Direction: d}, conv)
			assert.ElementsMatch(t, ids(filtered), ids(got))
		}
	}
}

func TestSortEmpty(t *testing.T) {
	got := Sort(nil, DefaultSort, currency.NewConverter(model.USD))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField(" Amount ")
	require.NoError(t, err)
	assert.Equal(t, SortByAmount, f)

	_, err = ParseSortField("payee")
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	now := time.Date(2024, time.December, 10, 9, 0, 0, 0, time.UTC)
	all := sample()

	t.Run("single entry scenario", func(t *testing.T) {
		one := []model.Entry{entry("a", "2024-12-05", model.CategoryTransport, "Metro card", "25", model.USD)}

		usd := Aggregate(one, one, currency.NewConverter(model.USD), now)
		assert.Equal(t, "$25.00", currency.Format(usd.TotalAll, usd.Currency))

		eur := Aggregate(one, one, currency.NewConverter(model.EUR), now)
		assert.True(t, decimal.RequireFromString("23.25").Equal(eur.TotalAll))
		assert.Equal(t, "€23.25", currency.Format(eur.TotalFiltered, eur.Currency))
		assert.Equal(t, "December", eur.MonthLabel)
		assert.Equal(t, 1, eur.CountFiltered)
	})

	t.Run("sums agree", func(t *testing.T) {
		conv := currency.NewConverter(model.GBP)
		filtered := Filter(all, Criteria{From: datePtr("2024-11-01")})
		s := Aggregate(all, filtered, conv, now)

		want := decimal.Zero
		for _, e := range filtered {
			want = want.Add(conv.Convert(e))
		}
		assert.True(t, want.Equal(s.TotalFiltered))
		assert.True(t, s.TotalFiltered.Equal(Sum(s.CategoryTotals)))
		assert.True(t, s.TotalFiltered.Equal(Sum(s.Timeline)))
		assert.Equal(t, len(filtered), s.CountFiltered)
	})

	t.Run("category buckets keep first-seen order", func(t *testing.T) {
		s := Aggregate(all, all, currency.NewConverter(model.USD), now)
		labels := make([]string, len(s.CategoryTotals))
		for i, b := range s.CategoryTotals {
			labels[i] = b.Label
		}
		assert.Equal(t, []string{"Transport", "Food", "Housing", "Entertainment"}, labels)
	})

	t.Run("timeline ascending by month", func(t *testing.T) {
		s := Aggregate(all, all, currency.NewConverter(model.USD), now)
		labels := make([]string, len(s.Timeline))
		for i, b := range s.Timeline {
			labels[i] = b.Label
		}
		assert.Equal(t, []string{"2024-10", "2024-11", "2024-12"}, labels)
	})

	t.Run("monthly total ignores the filter", func(t *testing.T) {
		conv := currency.NewConverter(model.USD)
		s := Aggregate(all, nil, conv, now)
		want := decimal.RequireFromString("1225").Add(conv.Convert(all[4]))
		assert.True(t, want.Equal(s.MonthlyTotal), "got %s", s.MonthlyTotal)
		assert.True(t, s.TotalFiltered.IsZero())
		assert.Empty(t, s.CategoryTotals)
		assert.Empty(t, s.Timeline)
	})

	t.Run("empty filter leaves total unchanged", func(t *testing.T) {
		conv := currency.NewConverter(model.USD)
		full := Aggregate(all, all, conv, now)
		none := Aggregate(all, Filter(all, Criteria{From: datePtr("2030-01-01")}), conv, now)
		assert.True(t, full.TotalAll.Equal(none.TotalAll))
		assert.Equal(t, 0, none.CountFiltered)
	})
}

func TestRows(t *testing.T) {
	rows := Rows(sample()[:2], currency.NewConverter(model.EUR))
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Entry.ID)
	assert.Equal(t, "23.25", rows[0].Display.StringFixed(2))
	assert.Equal(t, "62.40", rows[1].Display.StringFixed(2))
}
