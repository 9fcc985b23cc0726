package tui

import (
	"time"

	"github.com/Veraticus/spendlog/internal/export"
)

// DefaultDebounce is the quiet window after the last search keystroke.
const DefaultDebounce = 150 * time.Millisecond

// Config holds TUI configuration.
type Config struct {
	ExportPath      string
	Debounce        time.Duration
	Width           int
	Height          int
	IncludeCurrency bool
	AltScreen       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		ExportPath:      export.DefaultCSVName,
		Debounce:        DefaultDebounce,
		Width:           100,
		Height:          30,
		IncludeCurrency: true,
		AltScreen:       true,
	}
}

// WithExportPath sets where the export key writes CSV.
func WithExportPath(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.ExportPath = path
		}
	}
}

// WithDebounce sets the search quiet window.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.Debounce = d
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithPlainExport drops the currency columns from exported CSV.
func WithPlainExport(plain bool) Option {
	return func(c *Config) {
		c.IncludeCurrency = !plain
	}
}

// WithAltScreen controls whether the browser takes over the terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
