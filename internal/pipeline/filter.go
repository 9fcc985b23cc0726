// Package pipeline derives the filtered, sorted and aggregated views of an
// entry collection. Every function here is pure: inputs are never mutated.
package pipeline

import (
	"strings"
	"time"

	"github.com/Veraticus/spendlog/internal/model"
)

// Criteria selects entries. Zero values mean "no constraint".
type Criteria struct {
	From     *model.Date
	To       *model.Date
	Category model.Category
	Search   string
}

// IsZero reports whether the criteria constrain nothing.
func (c Criteria) IsZero() bool {
	return c.From == nil && c.To == nil && c.Category == "" && strings.TrimSpace(c.Search) == ""
}

// Matches reports whether e passes every predicate.
func (c Criteria) Matches(e model.Entry) bool {
	if c.From != nil && e.Date.Before(*c.From) {
		return false
	}
	if c.To != nil && e.Date.After(*c.To) {
		return false
	}
	if c.Category != "" && e.Category != c.Category {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(c.Search)); search != "" {
		if !strings.Contains(strings.ToLower(e.Description), search) {
			return false
		}
	}
	return true
}

// Filter returns the entries matching c, in input order.
func Filter(entries []model.Entry, c Criteria) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if c.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// QuickRange names a preset date window.
type QuickRange string

// Quick ranges.
const (
	RangeThisMonth QuickRange = "this-month"
	RangeLastMonth QuickRange = "last-month"
	RangeThisYear  QuickRange = "this-year"
	RangeClear     QuickRange = "clear"
)

// QuickRanges lists the presets in menu order.
var QuickRanges = []QuickRange{RangeThisMonth, RangeLastMonth, RangeThisYear, RangeClear}

// ParseQuickRange validates s.
func ParseQuickRange(s string) (QuickRange, bool) {
	for _, r := range QuickRanges {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Apply sets the date bounds of c to the window r describes, relative to now.
// Category and search are kept.
func (r QuickRange) Apply(c Criteria, now time.Time) Criteria {
	today := model.DateOf(now)
	var from, to model.Date

	switch r {
	case RangeThisMonth:
		from = today.FirstOfMonth()
		to = today.EndOfMonth()
	case RangeLastMonth:
		from = model.NewDate(today.Year(), today.Month()-1, 1)
		to = from.EndOfMonth()
	case RangeThisYear:
		from = model.NewDate(today.Year(), time.January, 1)
		to = model.NewDate(today.Year(), time.December, 31)
	default:
		c.From, c.To = nil, nil
		return c
	}

	c.From, c.To = &from, &to
	return c
}
