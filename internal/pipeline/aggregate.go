package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/shopspring/decimal"
)

// Bucket is one labelled total in a chart series.
type Bucket struct {
	Label string
	Total decimal.Decimal
}

// Summary holds the totals shown above the table and the chart series.
// Every amount is in Currency.
type Summary struct {
	TotalAll       decimal.Decimal
	TotalFiltered  decimal.Decimal
	MonthlyTotal   decimal.Decimal
	MonthLabel     string
	Currency       model.Currency
	CategoryTotals []Bucket
	Timeline       []Bucket
	CountFiltered  int
}

// Aggregate computes the summary. MonthlyTotal covers every entry in all that
// falls in the calendar month of now, independent of the filter.
func Aggregate(all, filtered []model.Entry, conv currency.Converter, now time.Time) Summary {
	month := model.DateOf(now).MonthKey()

	s := Summary{
		TotalAll:      decimal.Zero,
		TotalFiltered: decimal.Zero,
		MonthlyTotal:  decimal.Zero,
		MonthLabel:    now.Month().String(),
		Currency:      conv.Display,
		CountFiltered: len(filtered),
	}

	for _, e := range all {
		v := conv.Convert(e)
		s.TotalAll = s.TotalAll.Add(v)
		if e.Date.MonthKey() == month {
			s.MonthlyTotal = s.MonthlyTotal.Add(v)
		}
	}

	byCategory := newSeries()
	byMonth := newSeries()
	for _, e := range filtered {
		v := conv.Convert(e)
		s.TotalFiltered = s.TotalFiltered.Add(v)
		byCategory.add(string(e.Category), v)
		byMonth.add(e.Date.MonthKey(), v)
	}

	s.CategoryTotals = byCategory.buckets()
	s.Timeline = byMonth.buckets()
	slices.SortFunc(s.Timeline, func(a, b Bucket) int {
		return strings.Compare(a.Label, b.Label)
	})
	return s
}

// Sum adds the bucket totals.
func Sum(buckets []Bucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Total)
	}
	return total
}

// series accumulates totals per label, keeping first-seen order.
type series struct {
	index map[string]int
	out   []Bucket
}

func newSeries() *series {
	return &series{index: make(map[string]int)}
}

func (s *series) add(label string, v decimal.Decimal) {
	if i, ok := s.index[label]; ok {
		s.out[i].Total = s.out[i].Total.Add(v)
		return
	}
	s.index[label] = len(s.out)
	s.out = append(s.out, Bucket{Label: label, Total: v})
}

func (s *series) buckets() []Bucket {
	if s.out == nil {
		return []Bucket{}
	}
	return s.out
}
