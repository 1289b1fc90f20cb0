package server

import "go.uber.org/fx"

// Module provides the logs backend
var Module = fx.Options(
	fx.Provide(NewServer),
)
