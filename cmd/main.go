package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"logview/internal/app"
	"logview/internal/app/cli"
	"logview/internal/config"
	"logview/internal/config/logger"
)

// main is the entry point for the application
func main() {
	runApp(os.Args[1:])
}

// runApp contains the main application logic
func runApp(args []string) {
	opts, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err))
		os.Exit(1)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err))
		os.Exit(1)
	}

	application := createApp(cfg, opts)
	application.Run()
}

// loadConfig skips the config file for commands that do not read it
func loadConfig(opts *cli.Options) (*config.Config, error) {
	switch opts.Type {
	case cli.CommandInit, cli.CommandVersion, cli.CommandHelp:
		return config.DefaultConfig(), nil
	default:
		return config.LoadFile(opts.ConfigPath)
	}
}

// logOutput keeps logs off the screen the viewer draws on and out of printed results
func logOutput(opts *cli.Options) io.Writer {
	switch {
	case opts.Type == cli.CommandView && !opts.NoUI:
		return io.Discard
	case opts.Type == cli.CommandView:
		return os.Stderr
	default:
		return nil
	}
}

// createApp creates the FX application with the given config
func createApp(cfg *config.Config, opts *cli.Options) *fx.App {
	return fx.New(
		fx.WithLogger(createFxLogger(cfg)),
		fx.Supply(cfg, opts, logger.Sink{Writer: logOutput(opts)}),
		app.Module,
	)
}

// createFxLogger returns an FX logger based on the config
func createFxLogger(cfg *config.Config) func() fxevent.Logger {
	return func() fxevent.Logger {
		if cfg.Logging.Level == logger.DebugLevel {
			return &fxevent.ConsoleLogger{W: os.Stderr}
		}

		return fxevent.NopLogger
	}
}
