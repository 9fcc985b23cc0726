// Package currency converts amounts between supported currencies using a
// static rate table and formats them for display.
package currency

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/shopspring/decimal"
)

// rates holds units of each currency per one unit of the base currency.
var rates = map[model.Currency]decimal.Decimal{
	model.USD: decimal.NewFromInt(1),
	model.EUR: decimal.RequireFromString("0.93"),
	model.GBP: decimal.RequireFromString("0.79"),
	model.JPY: decimal.RequireFromString("149.50"),
	model.CAD: decimal.RequireFromString("1.36"),
	model.AUD: decimal.RequireFromString("1.52"),
	model.CHF: decimal.RequireFromString("0.88"),
	model.INR: decimal.RequireFromString("83.20"),
}

// Rate is one row of the rate table.
type Rate struct {
	Code model.Currency
	Rate decimal.Decimal
}

// RateOf returns the rate for code. Unknown codes are treated as the base
// currency.
func RateOf(code model.Currency) decimal.Decimal {
	if r, ok := rates[code]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// Table returns the rate table in menu order.
func Table() []Rate {
	out := make([]Rate, 0, len(model.Currencies))
	for _, c := range model.Currencies {
		out = append(out, Rate{Code: c, Rate: RateOf(c)})
	}
	return out
}

// ToDisplay converts amount from source into display. The result is not
// rounded.
func ToDisplay(amount decimal.Decimal, source, display model.Currency) decimal.Decimal {
	if source == display {
		return amount
	}
	return amount.Div(RateOf(source)).Mul(RateOf(display))
}

// Converter converts entries into a fixed display currency.
type Converter struct {
	Display model.Currency
}

// NewConverter returns a Converter for display.
func NewConverter(display model.Currency) Converter {
	return Converter{Display: display}
}

// Convert returns the entry amount expressed in the display currency.
func (c Converter) Convert(e model.Entry) decimal.Decimal {
	return ToDisplay(e.Amount, e.Currency, c.Display)
}

// maxMinor is the largest minor-unit count that fits in int64.
var maxMinor = decimal.NewFromInt(math.MaxInt64)

// Format renders amount in code, rounded to the currency's minor unit, e.g.
// "$25.00" or "€23.25".
func Format(amount decimal.Decimal, code model.Currency) string {
	c := money.GetCurrency(string(code))
	if c == nil {
		return amount.StringFixed(2) + " " + string(code)
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinor) {
		return amount.StringFixed(int32(c.Fraction)) + " " + c.Code
	}
	return money.New(minor.IntPart(), c.Code).Display()
}

// Format renders amount in the converter's display currency.
func (c Converter) Format(amount decimal.Decimal) string {
	return Format(amount, c.Display)
}
