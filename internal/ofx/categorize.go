package ofx

import (
	"slices"
	"strings"
	"unicode"

	"github.com/Veraticus/spendlog/internal/model"
)

// keywordRule assigns a category when a merchant name contains any keyword
// as whole words. A multi-word keyword must appear as consecutive words.
type keywordRule struct {
	category model.Category
	keywords []string
}

// Rules are checked in order; the first match wins.
var keywordRules = []keywordRule{
	{model.CategoryFood, []string{"STARBUCKS", "COFFEE", "CAFE", "WHOLE FOODS", "GROCERY", "MARKET", "BAKERY", "RESTAURANT", "PIZZA", "DOORDASH", "UBER EATS"}},
	{model.CategoryTransport, []string{"UBER", "LYFT", "TAXI", "METRO", "TRANSIT", "PARKING", "SHELL", "CHEVRON", "EXXON", "FUEL"}},
	{model.CategoryEntertainment, []string{"NETFLIX", "SPOTIFY", "HULU", "CINEMA", "THEATER", "THEATRE", "STEAM", "STEAMGAMES", "STEAMPOWERED"}},
	{model.CategoryUtilities, []string{"ELECTRIC", "WATER", "GAS CO", "GAS COMPANY", "INTERNET", "COMCAST", "VERIZON", "AT&T"}},
	{model.CategoryHealth, []string{"PHARMACY", "CVS", "WALGREENS", "CLINIC", "DENTAL", "HOSPITAL"}},
	{model.CategoryTravel, []string{"AIRLINE", "AIRLINES", "AIRWAYS", "HOTEL", "AIRBNB", "EXPEDIA"}},
	{model.CategoryEducation, []string{"UNIVERSITY", "COLLEGE", "COURSERA", "UDEMY", "BOOKSTORE"}},
	{model.CategoryHousing, []string{"RENT", "MORTGAGE", "HOA"}},
	{model.CategoryShopping, []string{"AMAZON", "TARGET", "WALMART", "EBAY", "IKEA"}},
}

// Categorize guesses a category from the OFX transaction type and the
// merchant name. Unknown merchants are Other.
func Categorize(trnType, merchant string) model.Category {
	switch strings.ToUpper(trnType) {
	case "ATM", "FEE", "SRVCHG":
		return model.CategoryOther
	}

	words := splitWords(merchant)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if containsWords(words, splitWords(kw)) {
				return rule.category
			}
		}
	}
	return model.CategoryOther
}

// splitWords upper-cases s and splits it on anything that is not a letter
// or digit, so "AT&T" becomes AT, T and "NETFLIX.COM" becomes NETFLIX, COM.
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsWords(words, seq []string) bool {
	if len(seq) == 0 {
		return false
	}
	for i := 0; i+len(seq) <= len(words); i++ {
		if slices.Equal(words[i:i+len(seq)], seq) {
			return true
		}
	}
	return false
}
