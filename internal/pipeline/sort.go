package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField is a sortable column.
type SortField string

// Sortable columns.
const (
	SortByDate     SortField = "date"
	SortByCategory SortField = "category"
	SortByAmount   SortField = "amount"
)

// SortFields lists the sortable columns.
var SortFields = []SortField{SortByDate, SortByCategory, SortByAmount}

// ParseSortField validates s.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortFields, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// Direction is the sort order.
type Direction string

// Directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the active column and direction.
type SortState struct {
	Field     SortField
	Direction Direction
}

// DefaultSort orders newest first.
var DefaultSort = SortState{Field: SortByDate, Direction: Descending}

// Toggle returns the state after the user selects field. The same field flips
// direction; a new field starts ascending.
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field {
		if s.Direction == Ascending {
			return SortState{Field: field, Direction: Descending}
		}
		return SortState{Field: field, Direction: Ascending}
	}
	return SortState{Field: field, Direction: Ascending}
}

// String renders e.g. "date desc".
func (s SortState) String() string {
	return string(s.Field) + " " + string(s.Direction)
}

// Sorter orders entries. Category labels compare with the collation rules of
// the configured locale.
type Sorter struct {
	conv currency.Converter
	tag  language.Tag
}

// NewSorter creates a Sorter that compares amounts in conv's display currency.
func NewSorter(conv currency.Converter, tag language.Tag) Sorter {
	return Sorter{conv: conv, tag: tag}
}

// Sort returns a sorted copy of entries. Ties on the primary key are broken by
// ID ascending regardless of direction.
func (s Sorter) Sort(entries []model.Entry, state SortState) []model.Entry {
	out := slices.Clone(entries)
	if out == nil {
		out = []model.Entry{}
	}

	// collate.Collator keeps internal buffers and is not safe to share.
	coll := collate.New(s.tag)

	primary := func(a, b model.Entry) int {
		switch state.Field {
		case SortByAmount:
			return s.conv.Convert(a).Cmp(s.conv.Convert(b))
		case SortByCategory:
			return coll.CompareString(string(a.Category), string(b.Category))
		default:
			return a.Date.Compare(b.Date)
		}
	}

	slices.SortStableFunc(out, func(a, b model.Entry) int {
		c := primary(a, b)
		if state.Direction == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Sort orders entries with the default English collation.
func Sort(entries []model.Entry, state SortState, conv currency.Converter) []model.Entry {
	return NewSorter(conv, language.English).Sort(entries, state)
}
