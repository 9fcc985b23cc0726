package engine

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spendlog/internal/model"
)

// Input is the raw user input for one entry. Currency may be blank, in which
// case the display currency is used.
type Input struct {
	Date        string
	Category    string
	Description string
	Amount      string
	Currency    string
}

// InputOf returns the input that reproduces e.
func InputOf(e model.Entry) Input {
	return Input{
		Date:        e.Date.String(),
		Category:    string(e.Category),
		Description: e.Description,
		Amount:      e.Amount.StringFixed(model.AmountPlaces),
		Currency:    string(e.Currency),
	}
}

// Merge returns in with every non-blank field of over applied.
func (in Input) Merge(over Input) Input {
	pick := func(base, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return base
	}
	return Input{
		Date:        pick(in.Date, over.Date),
		Category:    pick(in.Category, over.Category),
		Description: pick(in.Description, over.Description),
		Amount:      pick(in.Amount, over.Amount),
		Currency:    pick(in.Currency, over.Currency),
	}
}

// build parses and validates in. The returned entry has no ID.
func (c *Controller) build(in Input) (model.Entry, error) {
	date, err := model.ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return model.Entry{}, model.NewValidationError("date", err)
	}

	category, err := model.ParseCategory(in.Category)
	if err != nil {
		return model.Entry{}, model.NewValidationError("category", fmt.Errorf("%w: %q", err, in.Category))
	}

	amount, err := model.ParseAmount(in.Amount)
	if err != nil {
		return model.Entry{}, model.NewValidationError("amount", fmt.Errorf("%w: %q", err, in.Amount))
	}

	cur := c.state.Settings.DisplayCurrency
	if strings.TrimSpace(in.Currency) != "" {
		if cur, err = model.ParseCurrency(in.Currency); err != nil {
			return model.Entry{}, model.NewValidationError("currency", fmt.Errorf("%w: %q", err, in.Currency))
		}
	}

	e := model.Entry{
		Date:        date,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Currency:    cur,
	}
	if err := e.Validate(c.Today()); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}
