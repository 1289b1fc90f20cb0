package wire

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/fx"

	"logview/internal/app/fetcher"
	"logview/internal/app/monitor"
	"logview/internal/app/refresh"
	"logview/internal/app/ui/viewer"
	"logview/internal/config"
	"logview/internal/config/logger"
)

// UI creates a Bubble Tea program for the TUI positioned at an initial location
type UI func(ctx context.Context, initial string) (*tea.Program, error)

// Module provides the UI factory
var Module = fx.Options(
	fx.Provide(NewUI),
)

// UIParams contains dependencies for creating the UI factory
type UIParams struct {
	fx.In

	Client    fetcher.Client
	Store     *fetcher.Store
	Scheduler refresh.Scheduler
	Monitor   monitor.Monitor
	Config    *config.Config
	Logger    logger.Logger
}

// NewUI creates a factory function for constructing Bubble Tea programs
func NewUI(params UIParams) UI {
	return func(ctx context.Context, initial string) (*tea.Program, error) {
		model := viewer.NewModel(
			ctx,
			initial,
			params.Client,
			params.Store,
			params.Scheduler,
			params.Monitor,
			params.Config,
			params.Logger,
		)

		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)

		params.Logger.Debug().Msg("TUI: Program created via factory")

		return p, nil
	}
}
