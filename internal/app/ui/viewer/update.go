package viewer

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"logview/internal/app/fetcher"
	"logview/internal/app/hit"
	"logview/internal/app/monitor"
	"logview/internal/app/query"
	"logview/internal/app/refresh"
	"logview/internal/app/ui/components"
)

const tickCounterMaximum = 1000000

// locationChangedMsg asks the model to load whatever the location now holds
type locationChangedMsg struct{}

// fetchedMsg carries the outcome of one issued request
type fetchedMsg struct {
	seq  uint64
	hits []hit.Hit
	err  error
}

// refreshTickMsg is a tick of the auto-refresh handle with the given id
type refreshTickMsg struct {
	id uint64
}

// tickMsg signals a UI tick for animations
type tickMsg time.Time

// statsMsg carries the viewer's own resource usage
type statsMsg struct {
	stats monitor.Stats
	err   error
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case locationChangedMsg:
		return m.navigate()

	case FieldChangedMsg:
		m.state.filter = setField(m.state.filter, msg.Name, msg.Value)
		return m, nil

	case SubmitMsg:
		return m.submit()

	case AutoRefreshToggledMsg:
		m.state.filter.AutoRefresh = msg.Enabled
		m.log.Info().Bool("enabled", msg.Enabled).Msg("Auto-refresh toggled")

		cmd := m.setPolling(msg.Enabled)

		return m, cmd

	case fetchedMsg:
		return m.handleFetched(msg)

	case refreshTickMsg:
		return m.handleRefreshTick(msg)

	case spinner.TickMsg:
		if !m.store.Loading() {
			return m, nil
		}

		var cmd tea.Cmd

		m.ui.spinner, cmd = m.ui.spinner.Update(msg)

		return m, cmd

	case tickMsg:
		m.ui.tickCounter++
		if m.ui.tickCounter >= tickCounterMaximum {
			m.ui.tickCounter = 0
		}

		m.ui.pulse.Update()

		return m, tickCmd()

	case statsMsg:
		if msg.err == nil {
			m.state.appStats = msg.stats
		}

		return m, statsCmd(m.ctx, m.monitor)
	}

	return m, nil
}

// handleKeyPress routes keyboard input by focus
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.ui.keys.ForceQuit) {
		return m.quit()
	}

	if m.state.quitting {
		return m, nil
	}

	switch m.state.focus {
	case focusForm:
		return m.handleFormKey(msg)
	case focusDetail:
		return m.handleDetailKey(msg)
	}

	if m.store.State() == fetcher.Failure {
		return m.handleErrorKey(msg)
	}

	return m.handleTableKey(msg)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.ui.keys.Close) {
		m.ui.form = m.ui.form.Blur()
		m.state.focus = focusTable

		return m, nil
	}

	var (
		event tea.Msg
		cmd   tea.Cmd
	)

	m.ui.form, event, cmd = m.ui.form.Update(msg, m.state.filter, m.store.Loading())
	if event == nil {
		return m, cmd
	}

	// applied now so the next key sees the edited filter
	next, eventCmd := m.Update(event)

	return next, tea.Batch(cmd, eventCmd)
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ui.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.ui.keys.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.ui.keys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.ui.keys.PageUp):
		m.moveSelection(-m.pageSize())

	case key.Matches(msg, m.ui.keys.PageDown):
		m.moveSelection(m.pageSize())

	case key.Matches(msg, m.ui.keys.Open):
		m.openDetail()

	case key.Matches(msg, m.ui.keys.Search):
		m.ui.form = m.ui.form.Focus()
		m.state.focus = focusForm

	case key.Matches(msg, m.ui.keys.AutoRefresh):
		return m.Update(AutoRefreshToggledMsg{Enabled: !m.state.filter.AutoRefresh})

	case key.Matches(msg, m.ui.keys.Back):
		return m.back()

	case key.Matches(msg, m.ui.keys.Retry):
		cmd := m.fetch()
		return m, cmd
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ui.keys.Close), key.Matches(msg, m.ui.keys.Quit):
		m.closeDetail()

	case key.Matches(msg, m.ui.keys.Up):
		m.moveDetailSelection(-1)

	case key.Matches(msg, m.ui.keys.Down):
		m.moveDetailSelection(1)

	case key.Matches(msg, m.ui.keys.Open):
		return m.applyPivot()
	}

	return m, nil
}

func (m Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ui.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.ui.keys.Retry):
		cmd := m.fetch()
		return m, cmd
	case key.Matches(msg, m.ui.keys.Back):
		return m.back()
	}

	return m, nil
}

// navigate loads the current location: the form and auto-refresh follow the decoded filter
func (m Model) navigate() (tea.Model, tea.Cmd) {
	m.state.filter = query.Decode(m.history.Current())
	m.state.selected = 0
	m.closeDetail()

	m.log.Debug().Str("location", m.history.Current()).Msg("Location changed")

	cmd := tea.Batch(m.setPolling(m.state.filter.AutoRefresh), m.fetch())

	return m, cmd
}

// submit pushes the form filter into the location and fetches exactly once
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.history.Push(query.Encode(m.state.filter))
	m.ui.form = m.ui.form.Blur()
	m.state.focus = focusTable
	m.state.selected = 0

	m.log.Info().Str("location", m.history.Current()).Msg("Search submitted")

	cmd := m.fetch()

	return m, cmd
}

func (m Model) back() (tea.Model, tea.Cmd) {
	if _, ok := m.history.Back(); !ok {
		return m, nil
	}

	return m.navigate()
}

func (m Model) applyPivot() (tea.Model, tea.Cmd) {
	if m.state.detailSelected < 0 || m.state.detailSelected >= len(m.state.detail) {
		return m, nil
	}

	pivot := m.state.detail[m.state.detailSelected].Pivot
	m.history.Push(query.Encode(query.Filter{Query: pivot}))

	m.log.Info().Str("pivot", pivot).Msg("Pivot applied")

	return m.navigate()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.state.quitting = true
	m.stopPolling()
	m.store.Cancel()

	return m, tea.Quit
}

// fetch issues a request for the current location, superseding any in flight
func (m *Model) fetch() tea.Cmd {
	req := m.store.Begin(m.ctx, query.Decode(m.history.Current()))

	return tea.Batch(fetchCmd(m.client, req), m.ui.spinner.Tick)
}

func (m Model) handleFetched(msg fetchedMsg) (tea.Model, tea.Cmd) {
	if !m.store.Resolve(msg.seq, msg.hits, msg.err) {
		return m, nil
	}

	if msg.err != nil {
		m.log.Warn().Err(msg.err).Uint64("seq", msg.seq).Msg("Fetch failed")

		// rows of the previous result never show under the banner
		m.state.lines = nil
		m.state.selected = 0
		m.updateTableContent()

		return m, nil
	}

	hits := m.store.Hits()
	lines := make([]hit.LogLine, 0, len(hits))

	for _, h := range hits {
		lines = append(lines, hit.NewLogLine(h, m.fields))
	}

	m.state.lines = lines
	if m.state.selected >= len(lines) {
		m.state.selected = max(len(lines)-1, 0)
	}

	m.updateTableContent()

	return m, nil
}

func (m Model) handleRefreshTick(msg refreshTickMsg) (tea.Model, tea.Cmd) {
	h := m.state.refresh
	if h == nil || h.ID != msg.id {
		return m, nil
	}

	if m.store.Loading() {
		return m, waitRefreshCmd(h)
	}

	cmd := tea.Batch(waitRefreshCmd(h), m.fetch())

	return m, cmd
}

// setPolling starts or stops auto-refresh; starting twice keeps the running handle
func (m *Model) setPolling(enabled bool) tea.Cmd {
	if !enabled {
		m.stopPolling()
		return nil
	}

	if m.state.refresh != nil {
		return nil
	}

	m.state.refresh = m.scheduler.Start(m.ctx)
	m.ui.pulse.Start()

	return waitRefreshCmd(m.state.refresh)
}

func (m *Model) stopPolling() {
	if m.state.refresh != nil {
		m.state.refresh.Stop()
		m.state.refresh = nil
	}

	m.ui.pulse.Stop()
}

func (m *Model) openDetail() {
	if m.state.selected < 0 || m.state.selected >= len(m.state.lines) {
		return
	}

	m.state.detail = m.state.lines[m.state.selected].Entries()
	m.state.detailSelected = 0
	m.state.focus = focusDetail
	m.updateDetailContent()
}

func (m *Model) closeDetail() {
	m.state.detail = nil
	m.state.detailSelected = 0

	if m.state.focus == focusDetail {
		m.state.focus = focusTable
	}
}

func (m *Model) moveSelection(delta int) {
	if len(m.state.lines) == 0 {
		return
	}

	m.state.selected = clamp(m.state.selected+delta, 0, len(m.state.lines)-1)
	m.updateTableContent()
}

func (m *Model) moveDetailSelection(delta int) {
	if len(m.state.detail) == 0 {
		return
	}

	m.state.detailSelected = clamp(m.state.detailSelected+delta, 0, len(m.state.detail)-1)
	m.updateDetailContent()
}

func (m Model) pageSize() int {
	return max(m.ui.table.Height, 1)
}

func (m *Model) resize(width, height int) {
	m.ui.width = width
	m.ui.height = height
	m.ui.help.Width = width

	panelHeight := max(height-components.FooterHeight, components.MinPanelHeight)
	contentHeight := panelHeight - components.PanelBorderHeight
	innerWidth := width - components.PanelInnerPadding

	m.ui.table.Width = innerWidth
	m.ui.table.Height = max(contentHeight-components.FormHeight, 1)

	m.ui.detail.Width = innerWidth * components.ModalWidthPercent / 100
	m.ui.detail.Height = max(contentHeight*components.ModalHeightPercent/100-components.PanelBorderHeight, 1)

	m.ui.form = m.ui.form.SetWidth(innerWidth)
	m.state.ready = true

	m.updateTableContent()
	m.updateDetailContent()
}

func setField(f query.Filter, name, value string) query.Filter {
	switch name {
	case FieldQuery:
		f.Query = value
	case FieldStartDate:
		f.StartDate = value
	case FieldEndDate:
		f.EndDate = value
	}

	return f
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func fetchCmd(client fetcher.Client, req fetcher.Request) tea.Cmd {
	return func() tea.Msg {
		hits, err := client.Fetch(req.Ctx, req.Filter)
		return fetchedMsg{seq: req.Seq, hits: hits, err: err}
	}
}

// waitRefreshCmd waits for the next tick of h; a stopped handle yields no message
func waitRefreshCmd(h *refresh.Handle) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-h.C; !ok {
			return nil
		}

		return refreshTickMsg{id: h.ID}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(components.UITickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func statsCmd(ctx context.Context, mon monitor.Monitor) tea.Cmd {
	return tea.Tick(components.StatsPollingInterval, func(time.Time) tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, components.StatsCallTimeout)
		defer cancel()

		stats, err := mon.Self(callCtx)

		return statsMsg{stats: stats, err: err}
	})
}
