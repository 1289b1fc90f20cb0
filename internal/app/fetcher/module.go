package fetcher

import (
	"go.uber.org/fx"
)

// Module provides the fx dependency injection options for the fetcher package
var Module = fx.Options(
	fx.Provide(
		NewClient,
		NewStore,
	),
)
