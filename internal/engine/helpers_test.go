package engine

import "github.com/Veraticus/spendlog/internal/currency"

func formatTotal(v View) string {
	return currency.Format(v.Summary.TotalAll, v.DisplayCurrency)
}
