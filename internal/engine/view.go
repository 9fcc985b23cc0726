package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/export"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"golang.org/x/text/language"
)

// View is what the presentation layer renders.
type View struct {
	Rows            []pipeline.Row
	Summary         pipeline.Summary
	Criteria        pipeline.Criteria
	Sort            pipeline.SortState
	DisplayCurrency model.Currency
	Theme           model.Theme
	Empty           bool
}

// Compute derives the view from s: filter, then sort, then aggregate.
func Compute(s State, now time.Time, locale language.Tag) View {
	conv := currency.NewConverter(s.Settings.DisplayCurrency)

	filtered := pipeline.Filter(s.Entries, s.Criteria)
	sorted := pipeline.NewSorter(conv, locale).Sort(filtered, s.Sort)

	return View{
		Rows:            pipeline.Rows(sorted, conv),
		Summary:         pipeline.Aggregate(s.Entries, filtered, conv, now),
		Criteria:        s.Criteria,
		Sort:            s.Sort,
		DisplayCurrency: s.Settings.DisplayCurrency,
		Theme:           s.Settings.Theme,
		Empty:           len(sorted) == 0,
	}
}

// View recomputes the current view.
func (c *Controller) View() View {
	return Compute(c.state, c.now(), c.locale)
}

// Export writes the current view's rows as CSV.
func (c *Controller) Export(w io.Writer, opts export.CSVOptions) error {
	v := c.View()
	if v.Empty {
		return common.ErrNothingToExport
	}
	if err := export.WriteCSV(w, v.Rows, opts); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	c.logger.Info("Exported expenses", "rows", len(v.Rows))
	return nil
}
