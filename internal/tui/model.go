// Package tui implements the interactive expense browser.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/Veraticus/spendlog/internal/export"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/Veraticus/spendlog/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the part of the engine the browser drives.
type Controller interface {
	View() engine.View
	State() engine.State
	SetCriteria(pipeline.Criteria)
	ApplyQuickRange(pipeline.QuickRange)
	ToggleSort(pipeline.SortField) pipeline.SortState
	SetDisplayCurrency(ctx context.Context, code string) error
	ToggleTheme(ctx context.Context) (model.Theme, error)
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context, confirmed bool) error
	Export(w io.Writer, opts export.CSVOptions) error
}

// Model holds the browser state. Every mutation goes through the controller
// synchronously inside Update.
type Model struct {
	ctx        context.Context //nolint:containedctx // Update has no context parameter
	ctrl       Controller
	theme      themes.Theme
	view       engine.View
	help       help.Model
	search     textinput.Model
	status     string
	pendingID  string
	keymap     KeyMap
	config     Config
	table      table.Model
	searchSeq  int
	width      int
	height     int
	statusKind statusKind
	mode       mode
	quitting   bool
}

// New creates the browser model.
func New(ctx context.Context, ctrl Controller, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search descriptions"
	search.CharLimit = model.MaxDescriptionLength

	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		config: cfg,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		search: search,
		table:  table.New(table.WithFocused(true)),
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.search.SetValue(ctrl.State().Criteria.Search)
	// Columns must exist before rows are set.
	m.resize()
	m.refresh()
	m.theme = themes.For(m.view.Theme)
	m.applyStyles()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case searchTickMsg:
		if msg.seq == m.searchSeq {
			m.applySearch()
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(statusError, msg.err.Error())
		} else {
			m.setStatus(statusSuccess, fmt.Sprintf("Exported %d expenses to %s", msg.rows, msg.path))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirmDelete, modeConfirmClear:
			return m.updateConfirm(msg), nil
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Apply):
		m.searchSeq++
		m.applySearch()
		m.leaveSearch()
		return m, nil
	case key.Matches(msg, m.keymap.Cancel):
		m.leaveSearch()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, debounce(m.searchSeq, m.config.Debounce))
}

func (m *Model) leaveSearch() {
	m.mode = modeBrowse
	m.search.Blur()
	m.table.Focus()
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, km.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, km.Search):
		m.mode = modeSearch
		m.table.Blur()
		return m, m.search.Focus()

	case key.Matches(msg, km.ThisMonth):
		m.quickRange(pipeline.RangeThisMonth, "Showing this month")
	case key.Matches(msg, km.LastMonth):
		m.quickRange(pipeline.RangeLastMonth, "Showing last month")
	case key.Matches(msg, km.ThisYear):
		m.quickRange(pipeline.RangeThisYear, "Showing this year")
	case key.Matches(msg, km.ClearRange):
		m.quickRange(pipeline.RangeClear, "Showing all dates")

	case key.Matches(msg, km.CycleCategory):
		c := m.ctrl.State().Criteria
		c.Category = nextCategory(c.Category)
		m.ctrl.SetCriteria(c)
		m.refresh()
		m.setStatus(statusInfo, "Category: "+categoryLabel(c.Category))

	case key.Matches(msg, km.SortDate):
		m.toggleSort(pipeline.SortByDate)
	case key.Matches(msg, km.SortCategory):
		m.toggleSort(pipeline.SortByCategory)
	case key.Matches(msg, km.SortAmount):
		m.toggleSort(pipeline.SortByAmount)

	case key.Matches(msg, km.CycleCurrency):
		next := m.view.DisplayCurrency.Next()
		if err := m.ctrl.SetDisplayCurrency(m.ctx, string(next)); err != nil {
			m.setStatus(statusError, "Could not change currency: "+err.Error())
			break
		}
		m.refresh()
		m.setStatus(statusInfo, "Display currency: "+string(next))

	case key.Matches(msg, km.ToggleTheme):
		theme, err := m.ctrl.ToggleTheme(m.ctx)
		if err != nil {
			m.setStatus(statusError, "Could not change theme: "+err.Error())
			break
		}
		m.refresh()
		m.theme = themes.For(theme)
		m.applyStyles()
		m.setStatus(statusInfo, "Theme: "+string(theme))

	case key.Matches(msg, km.Delete):
		e, ok := m.selected()
		if !ok {
			m.setStatus(statusInfo, "Nothing selected.")
			break
		}
		m.pendingID = e.ID
		m.mode = modeConfirmDelete
		m.setStatus(statusWarning, fmt.Sprintf("Delete %q? [y/N]", e.Description))

	case key.Matches(msg, km.ClearAll):
		n := len(m.ctrl.State().Entries)
		if n == 0 {
			m.setStatus(statusInfo, "No expenses to clear.")
			break
		}
		m.mode = modeConfirmClear
		m.setStatus(statusWarning, fmt.Sprintf("Delete all %d expenses? [y/N]", n))

	case key.Matches(msg, km.Export):
		return m.export()

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	confirmed := msg.String() == "y" || msg.String() == "Y"
	action := m.mode
	m.mode = modeBrowse
	if !confirmed {
		m.pendingID = ""
		m.setStatus(statusInfo, "Cancelled.")
		return m
	}

	switch action {
	case modeConfirmDelete:
		err := m.ctrl.Delete(m.ctx, m.pendingID)
		m.pendingID = ""
		if err != nil {
			m.setStatus(statusError, "Delete failed: "+err.Error())
			return m
		}
		m.setStatus(statusSuccess, "Deleted expense.")
	case modeConfirmClear:
		if err := m.ctrl.ClearAll(m.ctx, true); err != nil {
			m.setStatus(statusError, "Clear failed: "+err.Error())
			return m
		}
		m.setStatus(statusSuccess, "Cleared all expenses.")
	}
	m.refresh()
	return m
}

func (m Model) export() (tea.Model, tea.Cmd) {
	var buf bytes.Buffer
	err := m.ctrl.Export(&buf, export.CSVOptions{IncludeCurrency: m.config.IncludeCurrency})
	switch {
	case errors.Is(err, common.ErrNothingToExport):
		m.setStatus(statusInfo, "Nothing to export.")
		return m, nil
	case err != nil:
		m.setStatus(statusError, err.Error())
		return m, nil
	}
	m.setStatus(statusInfo, "Exporting...")
	return m, writeExport(m.config.ExportPath, buf.Bytes(), len(m.view.Rows))
}

func (m *Model) quickRange(r pipeline.QuickRange, status string) {
	m.ctrl.ApplyQuickRange(r)
	m.refresh()
	m.setStatus(statusInfo, status)
}

func (m *Model) toggleSort(f pipeline.SortField) {
	s := m.ctrl.ToggleSort(f)
	m.refresh()
	m.setStatus(statusInfo, "Sorted by "+s.String())
}

func (m *Model) applySearch() {
	c := m.ctrl.State().Criteria
	c.Search = m.search.Value()
	m.ctrl.SetCriteria(c)
	m.refresh()
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

// refresh recomputes the view and reloads the table rows.
func (m *Model) refresh() {
	m.view = m.ctrl.View()

	rows := make([]table.Row, 0, len(m.view.Rows))
	for _, r := range m.view.Rows {
		e := r.Entry
		rows = append(rows, table.Row{
			e.Date.String(),
			themes.GetCategoryIcon(e.Category) + " " + string(e.Category),
			e.Description,
			currency.Format(e.Amount, e.Currency),
			currency.Format(r.Display, m.view.DisplayCurrency),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) selected() (model.Entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Rows) {
		return model.Entry{}, false
	}
	return m.view.Rows[i].Entry, true
}

func (m *Model) applyStyles() {
	s := table.DefaultStyles()
	s.Header = m.theme.Header
	s.Selected = m.theme.Selected
	m.table.SetStyles(s)
	m.search.PromptStyle = m.theme.Title
}

func (m *Model) resize() {
	const fixed = 10 + 18 + 14 + 14
	desc := max(m.width-fixed-12, 16)
	if m.showChart() {
		desc = max(desc-chartWidth, 16)
	}
	m.table.SetColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Category", Width: 18},
		{Title: "Description", Width: desc},
		{Title: "Amount", Width: 14},
		{Title: "Display", Width: 14},
	})
	// Title, badges, search, status and help take roughly ten lines.
	m.table.SetHeight(max(m.height-12, 3))
	m.help.Width = m.width
}

func nextCategory(c model.Category) model.Category {
	if c == "" {
		return model.Categories[0]
	}
	for i, cat := range model.Categories {
		if cat == c && i+1 < len(model.Categories) {
			return model.Categories[i+1]
		}
	}
	return ""
}

func categoryLabel(c model.Category) string {
	if c == "" {
		return "All"
	}
	return string(c)
}
