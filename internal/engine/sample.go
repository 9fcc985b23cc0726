package engine

import (
	"context"
	"time"

	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/shopspring/decimal"
)

type sampleItem struct {
	category    model.Category
	description string
	amount      string
	currency    model.Currency
	monthsAgo   int
	day         int
}

var sampleItems = []sampleItem{
	{model.CategoryHousing, "Rent", "1200.00", model.USD, 5, 1},
	{model.CategoryFood, "Weekly groceries", "84.20", model.USD, 5, 6},
	{model.CategoryTransport, "Metro card", "25.00", model.USD, 5, 12},
	{model.CategoryUtilities, "Electricity bill", "61.75", model.USD, 5, 18},
	{model.CategoryHousing, "Rent", "1200.00", model.USD, 4, 1},
	{model.CategoryEntertainment, "Concert tickets", "95.00", model.USD, 4, 9},
	{model.CategoryHealth, "Pharmacy", "18.40", model.USD, 4, 15},
	{model.CategoryFood, "Farmers market", "32.10", model.USD, 4, 22},
	{model.CategoryHousing, "Rent", "1200.00", model.USD, 3, 1},
	{model.CategoryTravel, "Train to Paris", "149.00", model.EUR, 3, 7},
	{model.CategoryFood, "Bistro dinner", "58.50", model.EUR, 3, 8},
	{model.CategoryShopping, "Rain jacket", "120.00", model.USD, 3, 20},
	{model.CategoryHousing, "Rent", "1200.00", model.USD, 2, 1},
	{model.CategoryEducation, "Online course", "49.99", model.USD, 2, 5},
	{model.CategoryUtilities, "Internet", "55.00", model.USD, 2, 14},
	{model.CategoryTransport, "Taxi", "3400", model.JPY, 2, 25},
	{model.CategoryHousing, "Rent", "1200.00", model.USD, 1, 1},
	{model.CategoryFood, "Weekly groceries", "91.35", model.USD, 1, 10},
	{model.CategoryEntertainment, "Streaming subscription", "15.49", model.USD, 1, 15},
	{model.CategoryOther, "Gift for a friend", "35.00", model.GBP, 1, 19},
	{model.CategoryHousing, "Rent", "1200.00", model.USD, 0, 1},
	{model.CategoryTransport, "Metro card", "25.00", model.USD, 0, 2},
	{model.CategoryFood, "Coffee beans", "16.80", model.USD, 0, 3},
}

// SampleEntries returns demonstration entries spread over the six months up
// to today. Entries that would fall after today are left out.
func (c *Controller) SampleEntries() []model.Entry {
	today := c.Today()
	out := make([]model.Entry, 0, len(sampleItems))
	for _, it := range sampleItems {
		month := model.NewDate(today.Year(), today.Month()-time.Month(it.monthsAgo), 1)
		day := min(it.day, month.EndOfMonth().Day())
		date := model.NewDate(month.Year(), month.Month(), day)
		if date.After(today) {
			continue
		}
		out = append(out, model.Entry{
			ID:          c.newID(),
			Date:        date,
			Category:    it.category,
			Description: it.description,
			Amount:      decimal.RequireFromString(it.amount),
			Currency:    it.currency,
		})
	}
	return out
}

// Seed replaces the collection with sample entries. Existing entries are
// only overwritten when confirmed.
func (c *Controller) Seed(ctx context.Context, confirmed bool) (int, error) {
	if len(c.state.Entries) > 0 && !confirmed {
		return 0, common.ErrConfirmationRequired
	}
	next := c.SampleEntries()
	if err := c.commit(ctx, next); err != nil {
		return 0, err
	}
	c.logger.Info("Seeded sample expenses", "count", len(next))
	return len(next), nil
}
