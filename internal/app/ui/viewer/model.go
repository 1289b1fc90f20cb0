package viewer

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"logview/internal/app/fetcher"
	"logview/internal/app/hit"
	"logview/internal/app/location"
	"logview/internal/app/monitor"
	"logview/internal/app/query"
	"logview/internal/app/refresh"
	"logview/internal/app/ui/components"
	"logview/internal/config"
	"logview/internal/config/logger"
)

// focusArea says which part of the screen receives keys
type focusArea int

const (
	focusTable focusArea = iota
	focusForm
	focusDetail
)

// Model represents the Bubble Tea model for the log viewer
type Model struct {
	ctx       context.Context
	client    fetcher.Client
	store     *fetcher.Store
	scheduler refresh.Scheduler
	monitor   monitor.Monitor
	history   *location.History
	fields    hit.Fields
	zone      *time.Location

	state struct {
		filter         query.Filter
		lines          []hit.LogLine
		selected       int
		focus          focusArea
		detail         []hit.Entry
		detailSelected int
		refresh        *refresh.Handle
		appStats       monitor.Stats
		ready          bool
		quitting       bool
	}

	ui struct {
		width       int
		height      int
		keys        KeyMap
		help        help.Model
		form        Form
		spinner     spinner.Model
		table       viewport.Model
		detail      viewport.Model
		pulse       *components.Pulse
		tickCounter int
	}

	log logger.Logger
}

// NewModel creates a log viewer positioned at the initial location
func NewModel(
	ctx context.Context,
	initial string,
	client fetcher.Client,
	store *fetcher.Store,
	scheduler refresh.Scheduler,
	monitor monitor.Monitor,
	cfg *config.Config,
	log logger.Logger,
) Model {
	log = log.WithComponent("UI")

	m := Model{
		ctx:       ctx,
		client:    client,
		store:     store,
		scheduler: scheduler,
		monitor:   monitor,
		history:   location.New(initial),
		fields:    hit.NewFields(cfg.Fields),
		zone:      cfg.Location(),
		log:       log,
	}

	m.state.filter = query.Decode(m.history.Current())
	m.state.focus = focusTable

	m.ui.keys = DefaultKeyMap()
	m.ui.help = help.New()
	m.ui.form = NewForm(m.ui.keys)
	m.ui.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(components.SpinnerStyle))
	m.ui.table = viewport.New(0, 0)
	m.ui.detail = viewport.New(0, 0)
	m.ui.pulse = components.NewPulse()

	log.Debug().Str("location", m.history.Current()).Msg("Created model")

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		emit(locationChangedMsg{}),
		tickCmd(),
		statsCmd(m.ctx, m.monitor),
	)
}

// Location returns the current shareable search string
func (m Model) Location() string {
	return m.history.Current()
}

// Filter returns the filter the form currently shows
func (m Model) Filter() query.Filter {
	return m.state.filter.Clone()
}
