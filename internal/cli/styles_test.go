package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test output is not a terminal, so lipgloss renders without escapes.
func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "success", got: FormatSuccess("Settings saved"), want: "✓ Settings saved"},
		{name: "info", got: FormatInfo("Cancelled."), want: "• Cancelled."},
		{name: "warning", got: FormatWarning("No expense with ID x"), want: "! No expense with ID x"},
		{name: "error", got: FormatError("invalid amount"), want: "✗ invalid amount"},
		{name: "unknown kind falls back to info", got: Format(Kind(42), "hi"), want: "• hi"},
		{name: "prompt", got: FormatPrompt("Delete all? [y/N]"), want: "Delete all? [y/N]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestFormatExpense(t *testing.T) {
	got := FormatExpense("Added", "abc", "Metro card", "$25.00", "2024-12-05")
	assert.Equal(t, "✓ Added abc: Metro card $25.00 (2024-12-05)", got)
}
