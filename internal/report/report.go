// Package report renders an engine.View as styled terminal text: the expense
// table, summary badges and bar charts.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

// EmptyMessage is shown instead of the table when nothing matches.
const EmptyMessage = "No expenses match the filters."

// DefaultBarWidth is the width of the longest chart bar.
const DefaultBarWidth = 30

// Renderer draws views with a theme.
type Renderer struct {
	theme    Theme
	barWidth int
	showIDs  bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBarWidth sets the width of the longest chart bar.
func WithBarWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.barWidth = n
		}
	}
}

// WithIDs adds an ID column to the table.
func WithIDs(show bool) Option {
	return func(r *Renderer) { r.showIDs = show }
}

// New returns a Renderer for the given theme setting.
func New(t model.Theme, opts ...Option) *Renderer {
	r := &Renderer{theme: ThemeFor(t), barWidth: DefaultBarWidth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List writes the badges and the table.
func (r *Renderer) List(w io.Writer, v engine.View) error {
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, r.Badges(v), r.Table(v)))
	return err
}

// Summary writes the badges and both charts.
func (r *Renderer) Summary(w io.Writer, v engine.View) error {
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, r.Badges(v), r.charts(v)))
	return err
}

// Render writes the badges, table and charts using the view's theme.
func Render(w io.Writer, v engine.View) error {
	r := New(v.Theme)
	if err := r.List(w, v); err != nil {
		return err
	}
	if v.Empty {
		return nil
	}
	_, err := fmt.Fprintln(w, r.charts(v))
	return err
}

func (r *Renderer) charts(v engine.View) string {
	if v.Empty {
		return r.theme.Empty.Render(EmptyMessage)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		r.theme.Title.Render("By category"),
		r.CategoryChart(v),
		"",
		r.theme.Title.Render("By month"),
		r.TimelineChart(v),
	)
}

// Table renders the rows, or the empty state.
func (r *Renderer) Table(v engine.View) string {
	if v.Empty {
		return r.theme.Empty.Render(EmptyMessage)
	}

	headers := []string{"Date", "Category", "Description", "Amount", "Display"}
	if r.showIDs {
		headers = append([]string{"ID"}, headers...)
	}
	amountCol := len(headers) - 2

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.theme.Header
			case col >= amountCol:
				return r.theme.Amount
			default:
				return r.theme.Cell
			}
		})

	for _, row := range v.Rows {
		e := row.Entry
		cells := []string{
			e.Date.String(),
			string(e.Category),
			e.Description,
			currency.Format(e.Amount, e.Currency),
			currency.Format(row.Display, v.DisplayCurrency),
		}
		if r.showIDs {
			cells = append([]string{e.ID}, cells...)
		}
		t.Row(cells...)
	}

	return t.Render()
}

// Badges renders the headline totals.
func (r *Renderer) Badges(v engine.View) string {
	s := v.Summary
	badge := func(label, value string) string {
		return r.theme.Badge.Render(r.theme.Muted.Render(label) + " " + r.theme.BadgeValue.Render(value))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		badge("Total", currency.Format(s.TotalAll, s.Currency)),
		badge("Filtered", currency.Format(s.TotalFiltered, s.Currency)),
		badge("Count", fmt.Sprintf("%d", s.CountFiltered)),
		badge(s.MonthLabel, currency.Format(s.MonthlyTotal, s.Currency)),
	)
}

// CategoryChart renders one bar per category of the filtered set.
func (r *Renderer) CategoryChart(v engine.View) string {
	return r.bars(v.Summary.CategoryTotals, v.Summary.Currency, func(label string) string { return label })
}

// TimelineChart renders one bar per month of the filtered set, oldest first.
func (r *Renderer) TimelineChart(v engine.View) string {
	return r.bars(v.Summary.Timeline, v.Summary.Currency, MonthLabel)
}

func (r *Renderer) bars(buckets []pipeline.Bucket, code model.Currency, label func(string) string) string {
	if len(buckets) == 0 {
		return r.theme.Muted.Render("(no data)")
	}

	peak := decimal.Zero
	labelWidth := 0
	for _, b := range buckets {
		if b.Total.GreaterThan(peak) {
			peak = b.Total
		}
		labelWidth = max(labelWidth, lipgloss.Width(label(b.Label)))
	}

	labelStyle := r.theme.Cell.Width(labelWidth + 2)
	lines := make([]string, 0, len(buckets))
	for i, b := range buckets {
		bar := lipgloss.NewStyle().Foreground(BarColor(i)).Render(strings.Repeat("█", BarLength(b.Total, peak, r.barWidth)))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(label(b.Label)),
			bar,
			" ",
			r.theme.Muted.Render(currency.Format(b.Total, code)),
		))
	}
	return strings.Join(lines, "\n")
}

// BarLength scales value against peak to at most width cells. Any positive
// value gets at least one cell.
func BarLength(value, peak decimal.Decimal, width int) int {
	if !value.IsPositive() || !peak.IsPositive() {
		return 0
	}
	n := int(value.Div(peak).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	return min(max(n, 1), width)
}

// MonthLabel turns a "2006-01" month key into "Jan 2006". Unparseable keys
// are returned unchanged.
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}
