// Package cli holds the styled terminal output and prompt helpers shared by
// the spend commands.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Colors match the TUI light and dark themes.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#cba6f7"}
	muted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#6c7086"}
	green   = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#a6e3a1"}
	amber   = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#f9e2af"}
	red     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f38ba8"}
	skyBlue = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#89dceb"}
)

// Kind selects the icon and color of a status line.
type Kind int

// Status line kinds.
const (
	Info Kind = iota
	Success
	Warning
	Failure
)

type kindStyle struct {
	icon  string
	style lipgloss.Style
}

var kinds = map[Kind]kindStyle{
	Info:    {icon: "•", style: lipgloss.NewStyle().Foreground(skyBlue)},
	Success: {icon: "✓", style: lipgloss.NewStyle().Foreground(green)},
	Warning: {icon: "!", style: lipgloss.NewStyle().Foreground(amber)},
	Failure: {icon: "✗", style: lipgloss.NewStyle().Foreground(red).Bold(true)},
}

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	idStyle      = lipgloss.NewStyle().Foreground(muted)
	amountStyle  = lipgloss.NewStyle().Bold(true)
	dateStyle    = lipgloss.NewStyle().Foreground(muted)
	fallbackKind = kinds[Info]
)

// Format renders message as a status line of the given kind.
func Format(kind Kind, message string) string {
	ks, ok := kinds[kind]
	if !ok {
		ks = fallbackKind
	}
	return ks.style.Render(ks.icon + " " + message)
}

// FormatSuccess renders a success line.
func FormatSuccess(message string) string { return Format(Success, message) }

// FormatInfo renders an informational line.
func FormatInfo(message string) string { return Format(Info, message) }

// FormatWarning renders a warning line.
func FormatWarning(message string) string { return Format(Warning, message) }

// FormatError renders an error line.
func FormatError(message string) string { return Format(Failure, message) }

// FormatPrompt renders a question waiting for input.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt)
}

// FormatExpense renders the confirmation printed after an expense is saved,
// e.g. "✓ Added 4f2c…: Metro card $25.00 (2024-12-05)".
func FormatExpense(verb, id, description, amount, date string) string {
	ks := kinds[Success]
	return fmt.Sprintf("%s %s: %s %s %s",
		ks.style.Render(ks.icon+" "+verb),
		idStyle.Render(id),
		description,
		amountStyle.Render(amount),
		dateStyle.Render("("+date+")"),
	)
}
