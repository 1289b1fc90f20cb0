package refresh

import (
	"go.uber.org/fx"
)

// Module provides the fx dependency injection options for the refresh package
var Module = fx.Options(
	fx.Provide(NewScheduler),
)
