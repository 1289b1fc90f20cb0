package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logview/internal/app/fetcher"
	"logview/internal/app/hit"
	"logview/internal/app/monitor"
	"logview/internal/app/ui/components"
	"logview/internal/config"
)

// View renders the UI
func (m Model) View() string {
	if !m.state.ready {
		return "Initializing…"
	}

	panel := components.RenderPanel(components.PanelOptions{
		Title:   m.renderTitle(),
		Status:  m.renderStatus(),
		Content: m.renderContent(),
		Stats:   m.renderStats(),
		Version: fmt.Sprintf("v%s", config.Version),
		Help:    m.renderHelp(),
		Height:  m.panelHeight(),
		Width:   m.ui.width,
	})

	return components.AppContainerStyle.Render(panel)
}

func (m Model) panelHeight() int {
	return max(m.ui.height-components.FooterHeight, components.MinPanelHeight)
}

func (m Model) contentSize() (int, int) {
	return m.ui.width - components.PanelInnerPadding, m.panelHeight() - components.PanelBorderHeight
}

// renderTitle renders the title with a spinner while loading
func (m Model) renderTitle() string {
	if m.store.Loading() {
		return m.ui.spinner.View() + components.LoaderSpacerStyle.Render("loading…")
	}

	return "logview"
}

// renderStatus renders the hit count and the live indicator
func (m Model) renderStatus() string {
	parts := make([]string, 0, 2)

	if state := m.store.State(); state != fetcher.Idle && state != fetcher.Failure {
		parts = append(parts, fmt.Sprintf("%d hits", len(m.state.lines)))
	}

	if m.state.refresh != nil {
		live := fmt.Sprintf("live %s", m.scheduler.Interval())
		parts = append(parts, m.ui.pulse.Render(components.LiveStyle)+" "+components.LiveStyle.Render(live))
	}

	return strings.Join(parts, " • ")
}

// renderStats renders the viewer's own CPU and memory usage
func (m Model) renderStats() string {
	if m.state.appStats == (monitor.Stats{}) {
		return ""
	}

	return m.state.appStats.String()
}

// renderHelp renders the key bindings for the focused area
func (m Model) renderHelp() string {
	keys := m.ui.keys.tableHelp()

	switch {
	case m.state.focus == focusForm:
		keys = m.ui.keys.formHelp()
	case m.state.focus == focusDetail:
		keys = m.ui.keys.detailHelp()
	case m.store.State() == fetcher.Failure:
		keys = m.ui.keys.errorHelp()
	}

	return components.HelpStyle.Render(m.ui.help.View(keys))
}

// renderContent renders the detail modal, the error banner, or the form above the table
func (m Model) renderContent() string {
	if m.state.focus == focusDetail {
		return m.renderDetail()
	}

	if m.store.State() == fetcher.Failure {
		return m.renderErrorBanner()
	}

	width, _ := m.contentSize()

	return strings.Join([]string{
		m.ui.form.View(m.state.filter, m.store.Loading()),
		components.RenderLine(width),
		m.renderColumnHeaders(),
		m.renderTable(),
	}, "\n")
}

// renderErrorBanner replaces the form and the table when the last fetch failed
func (m Model) renderErrorBanner() string {
	width, _ := m.contentSize()

	msg := "unknown error"
	if err := m.store.Err(); err != nil {
		msg = hit.Sanitize(err.Error())
	}

	banner := components.ErrorBannerStyle.Width(width).Render("Error: " + msg)
	hint := components.MutedStyle.Render("press r to retry or b to go back")

	return lipgloss.JoinVertical(lipgloss.Left, banner, "", hint)
}

func (m Model) renderTable() string {
	if len(m.state.lines) == 0 {
		switch m.store.State() {
		case fetcher.Success:
			return components.EmptyStateStyle.Render("No log entries match this search")
		default:
			return components.EmptyStateStyle.Render("Loading…")
		}
	}

	return m.ui.table.View()
}

// renderColumnHeaders renders the column headers row
func (m Model) renderColumnHeaders() string {
	header := fmt.Sprintf(
		"%s %-*s  %-*s  %-*s  %s",
		components.IndicatorEmpty,
		components.ColWidthTimestamp, "timestamp",
		components.ColWidthLevel, "level",
		components.ColWidthService, "service",
		"message",
	)

	return components.HeaderRowStyle.Render(header)
}

// updateTableContent re-renders all rows and keeps the selection visible
func (m *Model) updateTableContent() {
	width := m.ui.table.Width
	rows := make([]string, 0, len(m.state.lines))

	for i, line := range m.state.lines {
		rows = append(rows, m.renderRow(line, i == m.state.selected, width))
	}

	m.ui.table.SetContent(strings.Join(rows, "\n"))
	m.ui.table.SetYOffset(scrollOffset(m.ui.table.YOffset, m.ui.table.Height, m.state.selected, m.state.selected))
}

// renderRow renders one log line as a table row
func (m Model) renderRow(line hit.LogLine, selected bool, width int) string {
	indicator := components.IndicatorEmpty
	if selected {
		indicator = components.IndicatorSelected
	}

	timestamp := components.TruncateAndPad(line.FormatTime(m.zone), components.ColWidthTimestamp)
	level := components.TruncateAndPad(line.Level(), components.ColWidthLevel)
	service := components.TruncateAndPad(line.Service(), components.ColWidthService)

	if !selected {
		timestamp = components.TimestampStyle.Render(timestamp)
		level = components.LevelStyle(line.Level()).Render(level)
		service = lipgloss.NewStyle().Foreground(components.ServiceColor(line.Service())).Render(service)
	}

	messageWidth := max(width-components.FixedColumnsWidth, components.MessageMinWidth)
	message := renderMessage(line.Message(), messageWidth)

	row := fmt.Sprintf("%s %s  %s  %s  %s", indicator, timestamp, level, service, message)
	row = components.PadRight(row, width)

	if selected {
		return components.SelectedRowStyle.Render(row)
	}

	return components.RowStyle.Render(row)
}

// renderMessage renders a highlight fragment with styled matches, cut to width
func renderMessage(fragment string, width int) string {
	var b strings.Builder

	for _, seg := range hit.Segments(fragment) {
		if seg.Highlight {
			b.WriteString(components.HighlightStyle.Render(seg.Text))
			continue
		}

		b.WriteString(seg.Text)
	}

	return components.Truncate(b.String(), width)
}

// renderDetail renders the detail modal centered over the content area
func (m Model) renderDetail() string {
	width, height := m.contentSize()

	var title string
	if m.state.selected >= 0 && m.state.selected < len(m.state.lines) {
		h := m.state.lines[m.state.selected].Hit()
		title = components.TitleStyle.Render(hit.Sanitize(h.ID))
	}

	box := components.ModalStyle.
		Width(m.ui.detail.Width).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.ui.detail.View()))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// updateDetailContent renders every entry with its pivot underneath, the selected pivot highlighted
func (m *Model) updateDetailContent() {
	if len(m.state.detail) == 0 {
		m.ui.detail.SetContent("")
		return
	}

	keyWidth := 0
	for _, e := range m.state.detail {
		keyWidth = max(keyWidth, lipgloss.Width(e.Key))
	}

	keyWidth = min(keyWidth, components.ModalKeyMaxWidth)
	valueWidth := max(m.ui.detail.Width-keyWidth-6, components.MessageMinWidth)

	lines := make([]string, 0, 2*len(m.state.detail))
	selectedLine := 0

	for i, e := range m.state.detail {
		indicator := components.IndicatorEmpty
		pivotStyle := components.PivotDimStyle

		if i == m.state.detailSelected {
			indicator = components.IndicatorSelected
			pivotStyle = components.PivotStyle
			selectedLine = len(lines)
		}

		keyCell := components.ModalKeyStyle.Render(components.TruncateAndPad(hit.Sanitize(e.Key), keyWidth))
		value := components.Truncate(hit.Sanitize(e.Value), valueWidth)
		pivot := components.Truncate("↳ "+hit.Sanitize(e.Pivot), valueWidth+keyWidth)

		lines = append(lines,
			fmt.Sprintf("%s %s  %s", indicator, keyCell, value),
			"  "+pivotStyle.Render(pivot),
		)
	}

	m.ui.detail.SetContent(strings.Join(lines, "\n"))
	m.ui.detail.SetYOffset(scrollOffset(m.ui.detail.YOffset, m.ui.detail.Height, selectedLine, selectedLine+1))
}

// scrollOffset returns the viewport offset that keeps lines first..last visible
func scrollOffset(offset, height, first, last int) int {
	if height <= 0 {
		return 0
	}

	if last >= offset+height {
		offset = last - height + 1
	}

	if first < offset {
		offset = first
	}

	return max(offset, 0)
}
