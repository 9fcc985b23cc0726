package report

import (
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Palette colors chart bars, cycling when there are more series than colors.
var Palette = []lipgloss.Color{
	"#8b5cf6", "#22d3ee", "#34d399", "#fbbf24", "#f97316",
	"#38bdf8", "#f472b6", "#c084fc", "#a3e635", "#facc15",
}

// Theme holds the styles for one color scheme.
type Theme struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
	Amount     lipgloss.Style
	Muted      lipgloss.Style
	Badge      lipgloss.Style
	BadgeValue lipgloss.Style
	Empty      lipgloss.Style
	Border     lipgloss.Color
}

// Light is used on light terminals.
var Light = Theme{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#6d28d9")),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1f2937")).
		Padding(0, 1),
	Cell: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1f2937")).
		Padding(0, 1),
	Amount: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1f2937")).
		Padding(0, 1).
		Align(lipgloss.Right),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6b7280")),
	Badge: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#c4b5fd")).
		Padding(0, 1).
		MarginRight(1),
	BadgeValue: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#6d28d9")),
	Empty: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#6b7280")).
		Padding(1, 2),
	Border: lipgloss.Color("#d1d5db"),
}

// Dark is used on dark terminals.
var Dark = Theme{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#c4b5fd")),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f9fafb")).
		Padding(0, 1),
	Cell: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#e5e7eb")).
		Padding(0, 1),
	Amount: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#e5e7eb")).
		Padding(0, 1).
		Align(lipgloss.Right),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ca3af")),
	Badge: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6d28d9")).
		Padding(0, 1).
		MarginRight(1),
	BadgeValue: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")),
	Empty: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#9ca3af")).
		Padding(1, 2),
	Border: lipgloss.Color("#374151"),
}

// ThemeFor maps the persisted theme setting to styles.
func ThemeFor(t model.Theme) Theme {
	if t == model.ThemeDark {
		return Dark
	}
	return Light
}

// BarColor returns the palette color for the i-th series.
func BarColor(i int) lipgloss.Color {
	return Palette[i%len(Palette)]
}
