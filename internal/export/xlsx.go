package export

import (
	"fmt"
	"io"

	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in workbooks.
const (
	ExpensesSheet = "Expenses"
	SummarySheet  = "Summary"
)

// DefaultXLSXName is the file name used when no output is given.
const DefaultXLSXName = "expenses.xlsx"

// WriteXLSX writes a workbook with the rows on one sheet and the summary on
// another.
func WriteXLSX(w io.Writer, rows []pipeline.Row, summary pipeline.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ExpensesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeExpenses(f, rows, summary.Currency); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeExpenses(f *excelize.File, rows []pipeline.Row, display model.Currency) error {
	header := Header(CSVOptions{IncludeCurrency: true})
	header[len(header)-1] = fmt.Sprintf("Amount (%s)", display)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#8B5CF6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	if err := f.SetSheetRow(ExpensesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(ExpensesSheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		e := row.Entry
		amount, _ := e.Amount.Float64()
		display := num(row.Display)
		values := []any{e.Date.String(), string(e.Category), e.Description, amount, string(e.Currency), display}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExpensesSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if len(rows) > 0 {
		last := len(rows) + 1
		if err := f.SetCellStyle(ExpensesSheet, "D2", fmt.Sprintf("D%d", last), numberStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
		if err := f.SetCellStyle(ExpensesSheet, "F2", fmt.Sprintf("F%d", last), numberStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	widths := map[string]float64{"A": 12, "B": 16, "C": 40, "D": 12, "E": 10, "F": 16}
	for col, width := range widths {
		if err := f.SetColWidth(ExpensesSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, s pipeline.Summary) error {

	rows := [][]any{
		{"Display currency", string(s.Currency)},
		{"Total", num(s.TotalAll)},
		{"Filtered total", num(s.TotalFiltered)},
		{"Filtered count", s.CountFiltered},
		{"This month (" + s.MonthLabel + ")", num(s.MonthlyTotal)},
		{},
		{"Category", "Total"},
	}
	for _, b := range s.CategoryTotals {
		rows = append(rows, []any{b.Label, num(b.Total)})
	}
	rows = append(rows, []any{}, []any{"Month", "Total"})
	for _, b := range s.Timeline {
		rows = append(rows, []any{b.Label, num(b.Total)})
	}

	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func num(v decimal.Decimal) float64 {
	x, _ := v.Round(model.AmountPlaces).Float64()
	return x
}
