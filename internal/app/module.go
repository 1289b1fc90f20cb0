package app

import (
	"go.uber.org/fx"

	"logview/internal/app/cli"
	"logview/internal/app/fetcher"
	"logview/internal/app/generator"
	"logview/internal/app/monitor"
	"logview/internal/app/refresh"
	"logview/internal/app/search"
	"logview/internal/app/server"
	"logview/internal/app/ui/wire"
	"logview/internal/app/watcher"
	"logview/internal/config/logger"
)

var Module = fx.Options(
	logger.Module,
	fetcher.Module,
	refresh.Module,
	monitor.Module,
	wire.Module,
	search.Module,
	server.Module,
	watcher.Module,
	generator.Module,
	cli.Module,
	fx.Provide(NewApp),
	fx.Invoke(Register),
)
