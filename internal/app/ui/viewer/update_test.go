package viewer

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"logview/internal/app/fetcher"
	"logview/internal/app/hit"
	"logview/internal/app/monitor"
	"logview/internal/app/query"
	"logview/internal/app/refresh"
	"logview/internal/config"
	"logview/internal/config/logger"
)

const cmdTimeout = 50 * time.Millisecond

func sampleHits() []hit.Hit {
	return []hit.Hit{
		{
			ID: "a1",
			Source: map[string]any{
				"@timestamp":   "2024-01-01T00:00:00Z",
				"log.level":    "error",
				"message":      "boom",
				"service.name": "api",
			},
		},
		{
			ID: "a2",
			Source: map[string]any{
				"@timestamp":   "2024-01-01T00:01:00Z",
				"log.level":    "info",
				"message":      "ok",
				"service.name": "worker",
			},
		},
	}
}

func newTestModel(t *testing.T, ctrl *gomock.Controller, initial string) (Model, *fetcher.MockClient) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Refresh.Interval = time.Hour

	log := logger.NewLoggerWithOutput(cfg, io.Discard)
	client := fetcher.NewMockClient(ctrl)

	m := NewModel(
		context.Background(),
		initial,
		client,
		fetcher.NewStore(log),
		refresh.NewScheduler(cfg, log),
		monitor.NewMockMonitor(ctrl),
		cfg,
		log,
	)

	m, _ = update(m, tea.WindowSizeMsg{Width: 160, Height: 40})

	return m, client
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runCmd executes cmd and flattens batches, dropping commands that do not return promptly
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)

	go func() {
		ch <- cmd()
	}()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}

			return out
		}

		if msg == nil {
			return nil
		}

		return []tea.Msg{msg}
	case <-time.After(cmdTimeout):
		return nil
	}
}

// pump feeds the messages produced by cmd back into the model until nothing is left
func pump(m Model, cmd tea.Cmd) Model {
	queue := runCmd(cmd)

	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]

		switch msg.(type) {
		case fetchedMsg, locationChangedMsg, SubmitMsg, FieldChangedMsg, AutoRefreshToggledMsg:
			var next tea.Cmd

			m, next = update(m, msg)
			queue = append(queue, runCmd(next)...)
		}
	}

	return m
}

func send(m Model, msg tea.Msg) Model {
	m, cmd := update(m, msg)
	return pump(m, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func Test_Init(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _ := newTestModel(t, ctrl, "?query=x")

	assert.NotNil(t, m.Init())
	assert.Equal(t, "?query=x", m.Location())
	assert.Equal(t, "x", m.Filter().Query)
}

func Test_InitialLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "http://localhost:3000/?query=level%3Aerror&size=10")

	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, f query.Filter) ([]hit.Hit, error) {
			assert.Equal(t, "level:error", f.Query)
			assert.Equal(t, 10, f.Size)

			return sampleHits(), nil
		},
	).Times(1)

	m = send(m, locationChangedMsg{})

	assert.Equal(t, fetcher.Success, m.store.State())
	assert.Len(t, m.state.lines, 2)
	assert.Equal(t, "level:error", m.Filter().Query)
	assert.Nil(t, m.state.refresh)
}

func Test_Submit_PushesLocationAndFetchesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "")

	gomock.InOrder(
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil),
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, f query.Filter) ([]hit.Hit, error) {
				assert.Equal(t, "service.name: \"api\"", f.Query)
				assert.Equal(t, "2024-01-01", f.StartDate)

				return sampleHits()[:1], nil
			},
		),
	)

	m = send(m, locationChangedMsg{})

	m = send(m, FieldChangedMsg{Name: FieldQuery, Value: `service.name: "api"`})
	m = send(m, FieldChangedMsg{Name: FieldStartDate, Value: "2024-01-01"})
	assert.Equal(t, "", m.Location(), "editing must not touch the location")

	m = send(m, SubmitMsg{})

	assert.Equal(t, "?query=service.name%3A%20%22api%22&startDate=2024-01-01", m.Location())
	assert.Equal(t, focusTable, m.state.focus)
	assert.Len(t, m.state.lines, 1)
	assert.True(t, m.history.CanGoBack())
}

func Test_StaleResultDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _ := newTestModel(t, ctrl, "?query=x")

	m, _ = update(m, locationChangedMsg{})
	m, _ = update(m, locationChangedMsg{})
	require.Equal(t, uint64(2), m.store.Seq())

	m, _ = update(m, fetchedMsg{seq: 1, hits: sampleHits()})
	assert.True(t, m.store.Loading())
	assert.Empty(t, m.state.lines)

	m, _ = update(m, fetchedMsg{seq: 2, hits: sampleHits()[:1]})
	assert.Equal(t, fetcher.Success, m.store.State())
	assert.Len(t, m.state.lines, 1)
}

func Test_Failure_ShowsBannerAndRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "?query=x")

	gomock.InOrder(
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, &fetcher.Error{StatusCode: 500}),
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil),
	)

	m = send(m, locationChangedMsg{})

	assert.Equal(t, fetcher.Failure, m.store.State())
	assert.Contains(t, m.View(), "Error: Request failed with status code 500")
	assert.Contains(t, m.View(), "press r to retry")

	m = send(m, runes("r"))

	assert.Equal(t, fetcher.Success, m.store.State())
	assert.NotContains(t, m.View(), "Error:")
	assert.Len(t, m.state.lines, 2)
}

func Test_Failure_AfterSuccessDropsRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "?query=x")

	gomock.InOrder(
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil),
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, &fetcher.Error{StatusCode: 502}),
	)

	m = send(m, locationChangedMsg{})
	require.Contains(t, m.View(), "boom")

	m = send(m, runes("r"))

	view := m.View()
	assert.Equal(t, fetcher.Failure, m.store.State())
	assert.Contains(t, view, "Error: Request failed with status code 502")
	assert.NotContains(t, view, "boom")
	assert.NotContains(t, view, "worker")
	assert.NotContains(t, view, "01.01.2024")
	assert.NotContains(t, view, "2 hits")
	assert.Empty(t, m.state.lines)
}

func Test_DetailAndPivot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "?query=x")

	gomock.InOrder(
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil),
		client.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, f query.Filter) ([]hit.Hit, error) {
				assert.Equal(t, `message: "boom"`, f.Query)
				return sampleHits()[:1], nil
			},
		),
	)

	m = send(m, locationChangedMsg{})

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, focusDetail, m.state.focus)
	require.Len(t, m.state.detail, 4)
	assert.Contains(t, m.View(), "a1")

	m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "message", m.state.detail[m.state.detailSelected].Key)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "?query=message%3A%20%22boom%22", m.Location())
	assert.Equal(t, focusTable, m.state.focus)
	assert.Nil(t, m.state.detail)
	assert.Equal(t, `message: "boom"`, m.Filter().Query)
}

func Test_DetailClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "")
	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil)

	m = send(m, locationChangedMsg{})
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, focusDetail, m.state.focus)

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusTable, m.state.focus)
	assert.Equal(t, "", m.Location())
}

func Test_Back(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "?query=first")

	var queries []string

	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, f query.Filter) ([]hit.Hit, error) {
			queries = append(queries, f.Query)
			return sampleHits(), nil
		},
	).Times(3)

	m = send(m, locationChangedMsg{})
	m = send(m, FieldChangedMsg{Name: FieldQuery, Value: "second"})
	m = send(m, SubmitMsg{})
	require.Equal(t, "?query=second", m.Location())

	m = send(m, runes("b"))

	assert.Equal(t, "?query=first", m.Location())
	assert.Equal(t, "first", m.Filter().Query)
	assert.Equal(t, []string{"first", "second", "first"}, queries)

	m = send(m, runes("b"))
	assert.Equal(t, "?query=first", m.Location(), "back at the first entry is a no-op")
}

func Test_AutoRefresh_FromLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "?autoRefresh=true")
	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil).Times(2)

	m = send(m, locationChangedMsg{})
	require.NotNil(t, m.state.refresh)
	assert.True(t, m.Filter().AutoRefresh)
	assert.Contains(t, m.View(), "live 1h0m0s")

	id := m.state.refresh.ID

	m, cmd := update(m, refreshTickMsg{id: id + 100})
	assert.Nil(t, cmd, "ticks from a stopped handle are ignored")

	m = send(m, refreshTickMsg{id: id})
	assert.Equal(t, uint64(2), m.store.Seq())
}

func Test_AutoRefresh_SkipsTickWhileLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _ := newTestModel(t, ctrl, "?autoRefresh=true")

	m, _ = update(m, locationChangedMsg{})
	require.True(t, m.store.Loading())
	require.NotNil(t, m.state.refresh)

	m, _ = update(m, refreshTickMsg{id: m.state.refresh.ID})
	assert.Equal(t, uint64(1), m.store.Seq())
}

func Test_AutoRefresh_Toggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "")
	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil)

	m = send(m, locationChangedMsg{})

	m = send(m, runes("a"))
	require.NotNil(t, m.state.refresh)
	assert.True(t, m.Filter().AutoRefresh)
	assert.Equal(t, "", m.Location())

	handle := m.state.refresh

	m = send(m, runes("a"))
	assert.Nil(t, m.state.refresh)
	assert.False(t, m.Filter().AutoRefresh)

	select {
	case <-handle.Done():
	default:
		t.Fatal("toggling off must stop the ticker")
	}
}

func Test_Quit_StopsPolling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "?autoRefresh=true")
	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil)

	m = send(m, locationChangedMsg{})
	handle := m.state.refresh
	require.NotNil(t, handle)

	m, cmd := update(m, runes("q"))

	assert.True(t, m.state.quitting)
	assert.Nil(t, m.state.refresh)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	select {
	case <-handle.Done():
	default:
		t.Fatal("quitting must stop the ticker")
	}
}

func Test_FormFocus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "")
	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil).Times(2)

	m = send(m, locationChangedMsg{})

	m = send(m, runes("/"))
	require.Equal(t, focusForm, m.state.focus)
	assert.True(t, m.ui.form.Active())

	m = send(m, runes("err"))
	assert.Equal(t, "err", m.Filter().Query)
	assert.Equal(t, "", m.Location())

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "?query=err", m.Location())
	assert.Equal(t, focusTable, m.state.focus)
}

func Test_FormKeys_AppliedBeforeCommandsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "")
	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil).Times(2)

	m = send(m, locationChangedMsg{})
	m = send(m, runes("/"))
	require.Equal(t, focusForm, m.state.focus)

	var cmds []tea.Cmd

	for _, key := range []string{"a", "b", "c"} {
		var cmd tea.Cmd

		m, cmd = update(m, runes(key))
		cmds = append(cmds, cmd)
	}

	assert.Equal(t, "abc", m.Filter().Query)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "?query=abc", m.Location())
	assert.Equal(t, focusTable, m.state.focus)

	// late commands from the typed keys change nothing
	for _, c := range cmds {
		m = pump(m, c)
	}

	m = pump(m, cmd)

	assert.Equal(t, "abc", m.Filter().Query)
	assert.Equal(t, "?query=abc", m.Location())
	assert.Len(t, m.state.lines, 2)
}

func Test_SelectionClamped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, client := newTestModel(t, ctrl, "")
	client.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(sampleHits(), nil)

	m = send(m, locationChangedMsg{})

	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.state.selected)

	m = send(m, runes("j"))
	m = send(m, runes("j"))
	assert.Equal(t, 1, m.state.selected)
}

func Test_Clamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-1, 0, 3))
	assert.Equal(t, 3, clamp(7, 0, 3))
	assert.Equal(t, 2, clamp(2, 0, 3))
}
