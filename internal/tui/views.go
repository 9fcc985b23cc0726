package tui

import (
	"strings"

	"github.com/Veraticus/spendlog/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const chartWidth = 44

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	r := report.New(m.view.Theme, report.WithBarWidth(16))

	body := m.table.View()
	if m.view.Empty {
		body = m.theme.Subtitle.Padding(1, 2).Render(report.EmptyMessage)
	} else if m.showChart() {
		chart := m.theme.RoundedBox.Width(chartWidth - 4).Render(lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Bold.Render("By category"),
			r.CategoryChart(m.view),
		))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", chart)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		r.Badges(m.view),
		m.search.View(),
		body,
		m.renderStatus(),
		m.help.View(m.keymap),
	)
}

func (m Model) showChart() bool {
	return m.width >= 130
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("💸 spendlog")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", m.theme.Subtitle.Render(m.describeFilters()))
}

func (m Model) describeFilters() string {
	c := m.view.Criteria
	parts := make([]string, 0, 4)

	switch {
	case c.From != nil && c.To != nil:
		parts = append(parts, c.From.String()+" to "+c.To.String())
	case c.From != nil:
		parts = append(parts, "from "+c.From.String())
	case c.To != nil:
		parts = append(parts, "until "+c.To.String())
	default:
		parts = append(parts, "all dates")
	}
	parts = append(parts, strings.ToLower(categoryLabel(c.Category)))
	if c.Search != "" {
		parts = append(parts, `"`+c.Search+`"`)
	}
	parts = append(parts, "sort "+m.view.Sort.String())
	return strings.Join(parts, " · ")
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	style := m.theme.StatusInfo
	switch m.statusKind {
	case statusSuccess:
		style = m.theme.StatusSuccess
	case statusWarning:
		style = m.theme.StatusWarning
	case statusError:
		style = m.theme.StatusError
	}
	return style.Render(m.status)
}
