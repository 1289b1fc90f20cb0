package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"

	"logview/internal/app/cli"
	"logview/internal/config/logger"
)

// App represents the main application container
type App struct {
	cli        cli.CLI
	opts       *cli.Options
	shutdowner fx.Shutdowner
	log        logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewApp creates a new application instance with its dependencies
func NewApp(c cli.CLI, opts *cli.Options, shutdowner fx.Shutdowner, log logger.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		cli:        c,
		opts:       opts,
		shutdowner: shutdowner,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Run executes the command and shuts fx down with its exit code
func (a *App) Run() {
	exitCode := 0
	if err := a.execute(); err != nil {
		exitCode = 1
	}

	close(a.done)

	if err := a.shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
		a.log.Debug().Err(err).Msg("Shutdown already in progress")
	}
}

// execute runs the CLI and reports a failure on stderr
func (a *App) execute() error {
	err := a.cli.Run(a.ctx, a.opts)
	if err != nil {
		a.log.Error().Err(err).Msg("Application error")
		fmt.Fprintln(os.Stderr, cli.RenderError(err))
	}

	return err
}

// Register registers the application's lifecycle hooks with fx
func Register(lifecycle fx.Lifecycle, app *App) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go app.Run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			app.cancel()

			select {
			case <-app.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
