package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendlog/internal/model"
	"github.com/shopspring/decimal"
)

// EntryBuilder builds model.Entry values. Unset fields default to a 1.00
// USD "Other" expense dated 2024-01-15.
//
//	e := testutil.NewEntry("a").On("2024-12-05").In(model.CategoryTransport).
//		Described("Metro card").Costs("25").Build()
type EntryBuilder struct {
	e model.Entry
}

// NewEntry starts a builder for an entry with the given ID.
func NewEntry(id string) *EntryBuilder {
	return &EntryBuilder{e: model.Entry{
		ID:          id,
		Date:        model.NewDate(2024, time.January, 15),
		Category:    model.CategoryOther,
		Description: "Expense " + id,
		Amount:      decimal.RequireFromString("1.00"),
		Currency:    model.USD,
	}}
}

// On sets the date from YYYY-MM-DD. It panics on malformed input.
func (b *EntryBuilder) On(date string) *EntryBuilder {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	b.e.Date = d
	return b
}

// In sets the category.
func (b *EntryBuilder) In(c model.Category) *EntryBuilder {
	b.e.Category = c
	return b
}

// Described sets the description.
func (b *EntryBuilder) Described(s string) *EntryBuilder {
	b.e.Description = s
	return b
}

// Costs sets the amount from a decimal string.
func (b *EntryBuilder) Costs(amount string) *EntryBuilder {
	b.e.Amount = decimal.RequireFromString(amount)
	return b
}

// Currency sets the currency.
func (b *EntryBuilder) Currency(c model.Currency) *EntryBuilder {
	b.e.Currency = c
	return b
}

// Build returns the entry.
func (b *EntryBuilder) Build() model.Entry {
	return b.e
}

// MetroCard is the single-entry scenario used across packages.
func MetroCard() model.Entry {
	return NewEntry("metro").On("2024-12-05").In(model.CategoryTransport).
		Described("Metro card").Costs("25.00").Build()
}

// SampleEntries returns a small mixed-currency collection.
func SampleEntries() []model.Entry {
	return []model.Entry{
		MetroCard(),
		NewEntry("groceries").On("2024-11-20").In(model.CategoryFood).
			Described("Groceries at market").Costs("62.40").Currency(model.EUR).Build(),
		NewEntry("rent").On("2024-12-01").In(model.CategoryHousing).
			Described("Rent").Costs("1200.00").Build(),
		NewEntry("coffee").On("2024-10-15").In(model.CategoryFood).
			Described("Coffee").Costs("4.50").Currency(model.GBP).Build(),
	}
}
