package pipeline

import (
	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/shopspring/decimal"
)

// Row is a table row: the stored entry and its amount in the display
// currency.
type Row struct {
	Entry   model.Entry
	Display decimal.Decimal
}

// Rows converts entries into table rows, keeping their order.
func Rows(entries []model.Entry, conv currency.Converter) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Entry: e, Display: conv.Convert(e)}
	}
	return rows
}
