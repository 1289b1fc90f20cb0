//go:generate mockgen -source=cli.go -destination=cli_mock.go -package=cli
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"logview/internal/app/errors"
	"logview/internal/app/fetcher"
	"logview/internal/app/generator"
	"logview/internal/app/location"
	"logview/internal/app/query"
	"logview/internal/app/server"
	"logview/internal/app/ui/viewer"
	"logview/internal/app/ui/wire"
	"logview/internal/app/watcher"
	"logview/internal/config"
	"logview/internal/config/logger"
)

// CLI executes a parsed command
type CLI interface {
	Run(ctx context.Context, opts *Options) error
}

// Params contains the dependencies of the cli
type Params struct {
	fx.In

	Config    *config.Config
	UI        wire.UI
	Client    fetcher.Client
	Server    server.Server
	Watcher   watcher.Watcher
	Generator generator.Generator
	Logger    logger.Logger
}

type cli struct {
	cfg       *config.Config
	ui        wire.UI
	client    fetcher.Client
	server    server.Server
	watcher   watcher.Watcher
	generator generator.Generator
	out       io.Writer
	log       logger.Logger
}

// NewCLI creates a new cli instance
func NewCLI(p Params) CLI {
	return &cli{
		cfg:       p.Config,
		ui:        p.UI,
		client:    p.Client,
		server:    p.Server,
		watcher:   p.Watcher,
		generator: p.Generator,
		out:       os.Stdout,
		log:       p.Logger.WithComponent("CLI"),
	}
}

// Run dispatches on the command type
func (c *cli) Run(ctx context.Context, opts *Options) error {
	switch opts.Type {
	case CommandView:
		if opts.NoUI {
			return c.handlePrint(ctx, opts.Location, opts.Output)
		}

		return c.handleView(ctx, opts.Location)
	case CommandServe:
		return c.handleServe(ctx)
	case CommandInit:
		return c.handleInit(opts)
	case CommandVersion:
		return c.handleVersion()
	case CommandHelp:
		return c.handleHelp(opts.Usage)
	default:
		return errors.ErrUnknownCommand
	}
}

// handleView runs the viewer and prints the location it ended on
func (c *cli) handleView(ctx context.Context, initial string) error {
	c.log.Debug().Str("location", initial).Msg("Opening viewer")

	p, err := c.ui(ctx, initial)
	if err != nil {
		return err
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}

	if m, ok := final.(viewer.Model); ok && m.Location() != "" {
		fmt.Fprintln(c.out, locationStyle.Render(m.Location()))
	}

	return nil
}

// handlePrint fetches one page for the location and prints it
func (c *cli) handlePrint(ctx context.Context, initial, format string) error {
	filter := query.Decode(location.Normalize(initial))

	c.log.Debug().Str("query", filter.Query).Msg("Fetching once")

	hits, err := c.client.Fetch(ctx, filter)
	if err != nil {
		return err
	}

	return writeHits(c.out, format, hits, c.cfg)
}

// handleServe runs the backend until interrupted
func (c *cli) handleServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.watcher.Start(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Config reload disabled")
	}
	defer c.watcher.Close()

	c.log.Debug().Str("listen", c.cfg.Server.Listen).Msg("Starting backend")

	return c.server.Run(ctx)
}

// handleInit writes a config template next to the configured path
func (c *cli) handleInit(opts *Options) error {
	genOpts := generator.DefaultOptions()
	genOpts.Path = opts.ConfigPath

	if err := c.generator.Generate(genOpts, opts.Force, opts.DryRun); err != nil {
		return err
	}

	if !opts.DryRun {
		fmt.Fprintf(c.out, "%s %s\n", successStyle.Render("Created"), genOpts.Path)
	}

	return nil
}

// handleVersion prints the title block
func (c *cli) handleVersion() error {
	fmt.Fprintf(c.out, "\n%s\n\n", RenderTitle())
	return nil
}

// handleHelp prints the title block followed by the usage
func (c *cli) handleHelp(usage string) error {
	fmt.Fprintf(c.out, "\n%s\n\n%s", RenderTitle(), usage)
	return nil
}
