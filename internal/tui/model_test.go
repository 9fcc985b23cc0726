package tui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/Veraticus/spendlog/internal/report"
	"github.com/Veraticus/spendlog/internal/testutil"
	"github.com/Veraticus/spendlog/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, entries ...model.Entry) (Model, *engine.Controller, *testutil.TestStore) {
	t.Helper()
	store := testutil.SetupTestStore(t).WithEntries(entries...)
	ctrl := engine.New(context.Background(), store,
		engine.WithClock(testutil.FixedClock(testutil.Now)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	m := New(context.Background(), ctrl,
		WithExportPath(filepath.Join(t.TempDir(), "out.csv")),
		WithSize(140, 40),
	)
	return m, ctrl, store
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to m and returns the updated model and command.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, keyRunes(string(r)))
	}
	return m
}

func TestNew_LoadsView(t *testing.T) {
	m, _, _ := newTestModel(t, testutil.SampleEntries()...)

	assert.Len(t, m.table.Rows(), 4)
	// Newest first by default.
	assert.Equal(t, "2024-12-05", m.table.Rows()[0][0])
	assert.Equal(t, themes.Light.Name, m.theme.Name)
	assert.Nil(t, m.Init())
}

func TestNew_SingleEntryBeforeResize(t *testing.T) {
	store := testutil.SetupTestStore(t).WithEntries(testutil.MetroCard())
	ctrl := engine.New(context.Background(), store,
		engine.WithClock(testutil.FixedClock(testutil.Now)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	var m Model
	// Default size, no WindowSizeMsg yet.
	require.NotPanics(t, func() { m = New(context.Background(), ctrl) })
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Metro card", m.table.Rows()[0][2])
	assert.Len(t, m.table.Columns(), 5)
	assert.NotPanics(t, func() { _ = m.View() })
}

func TestSearchDebounce(t *testing.T) {
	m, ctrl, _ := newTestModel(t, testutil.SampleEntries()...)

	m, _ = send(t, m, keyRunes("/"))
	assert.Equal(t, modeSearch, m.mode)

	m = typeText(t, m, "rent")
	assert.Equal(t, "rent", m.search.Value())
	assert.Equal(t, 4, m.searchSeq)
	assert.Empty(t, ctrl.State().Criteria.Search, "nothing applies before the window closes")

	// Stale ticks are ignored.
	for seq := 1; seq < 4; seq++ {
		m, _ = send(t, m, searchTickMsg{seq: seq})
	}
	assert.Empty(t, ctrl.State().Criteria.Search)
	assert.Len(t, m.table.Rows(), 4)

	m, _ = send(t, m, searchTickMsg{seq: 4})
	assert.Equal(t, "rent", ctrl.State().Criteria.Search)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Rent", m.table.Rows()[0][2])
}

func TestSearchDebounce_KeystrokeAfterTickIsScheduled(t *testing.T) {
	m, ctrl, _ := newTestModel(t, testutil.SampleEntries()...)
	m, _ = send(t, m, keyRunes("/"))

	m = typeText(t, m, "me")
	seq := m.searchSeq
	m = typeText(t, m, "t")

	m, _ = send(t, m, searchTickMsg{seq: seq})
	assert.Empty(t, ctrl.State().Criteria.Search)

	m, _ = send(t, m, searchTickMsg{seq: m.searchSeq})
	assert.Equal(t, "met", ctrl.State().Criteria.Search)
	assert.Len(t, m.table.Rows(), 1)
}

func TestSearch_EnterAppliesImmediately(t *testing.T) {
	m, ctrl, _ := newTestModel(t, testutil.SampleEntries()...)
	m, _ = send(t, m, keyRunes("/"))
	m = typeText(t, m, "coffee")
	pending := m.searchSeq

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "coffee", ctrl.State().Criteria.Search)

	// The outstanding tick no longer matches and must not reapply.
	m, _ = send(t, m, searchTickMsg{seq: pending})
	assert.Len(t, m.table.Rows(), 1)
}

func TestDebounceCommand(t *testing.T) {
	msg := debounce(7, time.Millisecond)()
	assert.Equal(t, searchTickMsg{seq: 7}, msg)
}

func TestSortKeys(t *testing.T) {
	m, ctrl, _ := newTestModel(t, testutil.SampleEntries()...)

	m, _ = send(t, m, keyRunes("3"))
	assert.Equal(t, pipeline.SortState{Field: pipeline.SortByAmount, Direction: pipeline.Ascending}, ctrl.State().Sort)
	assert.Equal(t, "Coffee", m.table.Rows()[0][2])

	m, _ = send(t, m, keyRunes("3"))
	assert.Equal(t, pipeline.Descending, ctrl.State().Sort.Direction)
	assert.Equal(t, "Rent", m.table.Rows()[0][2])
	assert.Contains(t, m.status, "amount desc")
}

func TestQuickRangeAndCategoryKeys(t *testing.T) {
	m, ctrl, _ := newTestModel(t, testutil.SampleEntries()...)

	m, _ = send(t, m, keyRunes("m"))
	assert.Len(t, m.table.Rows(), 2, "metro and rent fall in December 2024")

	m, _ = send(t, m, keyRunes("p"))
	assert.Len(t, m.table.Rows(), 1)

	m, _ = send(t, m, keyRunes("x"))
	assert.Len(t, m.table.Rows(), 4)

	m, _ = send(t, m, keyRunes("c"))
	assert.Equal(t, model.CategoryFood, ctrl.State().Criteria.Category)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "Category: Food", m.status)
}

func TestNextCategory(t *testing.T) {
	assert.Equal(t, model.Categories[0], nextCategory(""))
	assert.Equal(t, model.Categories[1], nextCategory(model.Categories[0]))
	assert.Equal(t, model.Category(""), nextCategory(model.CategoryOther))
	assert.Equal(t, model.Category(""), nextCategory("Pets"))
}

func TestCurrencyAndThemeKeys(t *testing.T) {
	m, ctrl, store := newTestModel(t, testutil.MetroCard())

	m, _ = send(t, m, keyRunes("$"))
	assert.Equal(t, model.EUR, ctrl.State().Settings.DisplayCurrency)
	assert.Equal(t, "€23.25", m.table.Rows()[0][4])

	m, _ = send(t, m, keyRunes("t"))
	assert.Equal(t, model.ThemeDark, ctrl.State().Settings.Theme)
	assert.Equal(t, themes.Dark.Name, m.theme.Name)

	settings := store.LoadSettings(context.Background())
	assert.Equal(t, model.ThemeDark, settings.Theme)
	assert.Equal(t, model.EUR, settings.DisplayCurrency)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, ctrl, _ := newTestModel(t, testutil.SampleEntries()...)

	m, _ = send(t, m, keyRunes("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.status, "Metro card")

	m, _ = send(t, m, keyRunes("n"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Cancelled.", m.status)
	assert.Len(t, ctrl.State().Entries, 4)

	m, _ = send(t, m, keyRunes("d"))
	m, _ = send(t, m, keyRunes("y"))
	assert.Equal(t, "Deleted expense.", m.status)
	assert.Len(t, ctrl.State().Entries, 3)
	assert.Len(t, m.table.Rows(), 3)
	_, ok := ctrl.Get("metro")
	assert.False(t, ok)
}

func TestDeleteFailureKeepsEntry(t *testing.T) {
	m, ctrl, store := newTestModel(t, testutil.MetroCard())
	store.FailWrites(true)

	m, _ = send(t, m, keyRunes("d"))
	m, _ = send(t, m, keyRunes("y"))
	assert.Equal(t, statusError, m.statusKind)
	assert.Len(t, ctrl.State().Entries, 1)
	assert.Len(t, m.table.Rows(), 1)
}

func TestClearAll(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		m, ctrl, store := newTestModel(t, testutil.SampleEntries()...)

		m, _ = send(t, m, keyRunes("X"))
		assert.Equal(t, modeConfirmClear, m.mode)
		assert.Contains(t, m.status, "Delete all 4 expenses?")

		m, _ = send(t, m, keyRunes("Y"))
		assert.Empty(t, ctrl.State().Entries)
		assert.Empty(t, store.Reload())
		assert.True(t, m.view.Empty)
		assert.Contains(t, m.View(), report.EmptyMessage)
	})

	t.Run("nothing to clear", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		m, _ = send(t, m, keyRunes("X"))
		assert.Equal(t, modeBrowse, m.mode)
		assert.Equal(t, "No expenses to clear.", m.status)
	})
}

func TestExport(t *testing.T) {
	t.Run("writes csv", func(t *testing.T) {
		m, _, _ := newTestModel(t, testutil.MetroCard())

		m, cmd := send(t, m, keyRunes("e"))
		require.NotNil(t, cmd)
		msg := cmd()
		done, ok := msg.(exportDoneMsg)
		require.True(t, ok)
		require.NoError(t, done.err)

		m, _ = send(t, m, done)
		assert.Equal(t, statusSuccess, m.statusKind)
		assert.Contains(t, m.status, "Exported 1 expenses")

		data, err := os.ReadFile(m.config.ExportPath)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), `"Date","Category","Description","Amount","Currency","Display Amount"`))
		assert.Contains(t, string(data), `"Metro card"`)
	})

	t.Run("empty view", func(t *testing.T) {
		m, _, _ := newTestModel(t)

		m, cmd := send(t, m, keyRunes("e"))
		assert.Nil(t, cmd)
		assert.Equal(t, "Nothing to export.", m.status)
	})
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t, testutil.SampleEntries()...)
	out := m.View()

	assert.Contains(t, out, "spendlog")
	assert.Contains(t, out, "Metro card")
	assert.Contains(t, out, "By category")
	assert.Contains(t, out, "sort date desc")

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	assert.NotContains(t, m.View(), "By category")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := send(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestQuitKeyTypesIntoSearch(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = send(t, m, keyRunes("/"))

	m, _ = send(t, m, keyRunes("q"))
	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.search.Value())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeBrowse, m.mode)
}
