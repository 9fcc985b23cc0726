package model

import "strings"

// Category is an expense category label.
type Category string

// Supported categories.
const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryHousing       Category = "Housing"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryShopping      Category = "Shopping"
	CategoryTravel        Category = "Travel"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// Categories lists every supported category in menu order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealth,
	CategoryShopping,
	CategoryTravel,
	CategoryEducation,
	CategoryOther,
}

// ParseCategory matches s case-insensitively against the supported set and
// returns the canonical label.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// String returns the label.
func (c Category) String() string {
	return string(c)
}
