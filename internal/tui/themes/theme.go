// Package themes holds the browser's light and dark styles.
package themes

import (
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Name          model.Theme
}

// Light is the default theme.
var Light = Theme{
	Name:    model.ThemeLight,
	Primary: lipgloss.Color("#7c3aed"),
	Muted:   lipgloss.Color("#6b7280"),
	Border:  lipgloss.Color("#d1d5db"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#6d28d9")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6b7280")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1f2937")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#111827")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Header: lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#d1d5db")),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#d1d5db")).
		Padding(0, 1),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#059669")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d97706")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#dc2626")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2563eb")),
}

// Dark is the Catppuccin Mocha palette.
var Dark = Theme{
	Name:    model.ThemeDark,
	Primary: lipgloss.Color("#cba6f7"),
	Muted:   lipgloss.Color("#6c7086"),
	Border:  lipgloss.Color("#45475a"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cba6f7")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#cba6f7")).
		Foreground(lipgloss.Color("#1e1e2e")).
		Bold(true),
	Header: lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#45475a")),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6e3a1")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f9e2af")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f38ba8")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#89dceb")),
}

// For returns the theme matching the persisted setting.
func For(t model.Theme) Theme {
	if t == model.ThemeDark {
		return Dark
	}
	return Light
}

// CategoryIcons maps categories to emoji icons.
var CategoryIcons = map[model.Category]string{
	model.CategoryFood:          "🥬",
	model.CategoryTransport:     "🚗",
	model.CategoryHousing:       "🏠",
	model.CategoryUtilities:     "💡",
	model.CategoryEntertainment: "🎬",
	model.CategoryHealth:        "💊",
	model.CategoryShopping:      "🛍️",
	model.CategoryTravel:        "✈️",
	model.CategoryEducation:     "📚",
	model.CategoryOther:         "📦",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category model.Category) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📦"
}
