// Package export writes the current expense view to CSV, XLSX and Google
// Sheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
)

// DefaultCSVName is the file name used when no output is given.
const DefaultCSVName = "expenses.csv"

// CSVOptions controls the CSV columns.
type CSVOptions struct {
	// IncludeCurrency adds the Currency and Display Amount columns.
	IncludeCurrency bool
}

// Header returns the header row for opts.
func Header(opts CSVOptions) []string {
	header := []string{"Date", "Category", "Description", "Amount"}
	if opts.IncludeCurrency {
		header = append(header, "Currency", "Display Amount")
	}
	return header
}

// Record returns the CSV cells of one row.
func Record(row pipeline.Row, opts CSVOptions) []string {
	e := row.Entry
	rec := []string{
		e.Date.String(),
		string(e.Category),
		e.Description,
		e.Amount.StringFixed(model.AmountPlaces),
	}
	if opts.IncludeCurrency {
		rec = append(rec, string(e.Currency), row.Display.StringFixed(model.AmountPlaces))
	}
	return rec
}

// CSV renders rows. Every field is quoted, embedded quotes are doubled and
// lines are joined with CRLF without a trailing line break.
func CSV(rows []pipeline.Row, opts CSVOptions) string {
	var b strings.Builder
	writeLine(&b, Header(opts))
	for _, row := range rows {
		b.WriteString("\r\n")
		writeLine(&b, Record(row, opts))
	}
	return b.String()
}

// WriteCSV writes CSV(rows, opts) to w.
func WriteCSV(w io.Writer, rows []pipeline.Row, opts CSVOptions) error {
	if _, err := io.WriteString(w, CSV(rows, opts)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeLine(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}
