package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debounce returns a tick tagged with seq after d.
func debounce(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

// writeExport writes the rendered CSV off the update loop.
func writeExport(path string, data []byte, rows int) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return exportDoneMsg{err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return exportDoneMsg{path: path, rows: rows}
	}
}
