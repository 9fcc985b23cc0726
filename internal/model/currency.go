package model

import "strings"

// Currency is an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	CHF Currency = "CHF"
	INR Currency = "INR"
)

// BaseCurrency is the reference currency of the rate table.
const BaseCurrency = USD

// Currencies lists every supported currency in menu order.
var Currencies = []Currency{USD, EUR, GBP, JPY, CAD, AUD, CHF, INR}

// ParseCurrency normalizes s and checks it against the supported set.
func ParseCurrency(s string) (Currency, error) {
	code := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !code.Supported() {
		return "", ErrUnsupportedCurrency
	}
	return code, nil
}

// Supported reports whether c is in the supported set.
func (c Currency) Supported() bool {
	for _, s := range Currencies {
		if s == c {
			return true
		}
	}
	return false
}

// Next returns the currency after c in menu order, wrapping around.
func (c Currency) Next() Currency {
	for i, s := range Currencies {
		if s == c {
			return Currencies[(i+1)%len(Currencies)]
		}
	}
	return BaseCurrency
}
