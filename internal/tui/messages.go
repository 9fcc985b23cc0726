package tui

// searchTickMsg fires when a debounce window closes. Only the tick whose seq
// matches the latest keystroke applies the query.
type searchTickMsg struct {
	seq int
}

type exportDoneMsg struct {
	err  error
	path string
	rows int
}

// statusKind selects the status line style.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// mode is what keystrokes currently drive.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirmDelete
	modeConfirmClear
)
